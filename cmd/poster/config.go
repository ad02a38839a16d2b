package main

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/jrsteele09/go-retro-poster/internal/config"
	"github.com/pkg/errors"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	serverURLEnvVar = "POSTER_SERVER_URL"
	dbPathEnvVar    = "POSTER_DB_PATH"
	webURLEnvVar    = "TWITTER_WEB_URL"
)

// Config is the CLI configuration, read from TOML with environment overrides.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Provider ProviderConfig `toml:"provider"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type ProviderConfig struct {
	WebURL string `toml:"web_url"`
}

type LogConfig struct {
	Env string `toml:"env"`
}

// DefaultConfig returns the embedded example configuration.
func DefaultConfig() *Config {
	var c Config
	if err := toml.Unmarshal(exampleConf, &c); err != nil {
		panic("failed to parse embedded default config: " + err.Error())
	}
	return &c
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}

	c.Server.URL = config.GetEnv(serverURLEnvVar, c.Server.URL)
	c.Store.Path = config.GetEnv(dbPathEnvVar, c.Store.Path)
	c.Provider.WebURL = config.GetEnv(webURLEnvVar, c.Provider.WebURL)

	if c.Store.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "no store path configured")
		}
		c.Store.Path = filepath.Join(dir, "retro-poster", "poster.db")
	}
	return c, nil
}
