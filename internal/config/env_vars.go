package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	appNameVar           = "APP_NAME"
	envVar               = "ENV"
	credentialModeEnvVar = "CREDENTIAL_MODE"
)

// CredentialMode selects which credentials the post endpoint falls back to when a request carries no
// bearer token.
type CredentialMode string

const (
	// CredentialModeAuto uses the app credentials when all four are configured.
	CredentialModeAuto CredentialMode = "auto"
	// CredentialModeApp requires the app credentials at startup.
	CredentialModeApp CredentialMode = "app"
	// CredentialModeOAuth only accepts per-user bearer tokens.
	CredentialModeOAuth CredentialMode = "oauth"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3000")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Retro Poster")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetCredentialMode() CredentialMode {
	switch mode := CredentialMode(strings.ToLower(GetEnv(credentialModeEnvVar, string(CredentialModeAuto)))); mode {
	case CredentialModeApp, CredentialModeOAuth:
		return mode
	default:
		return CredentialModeAuto
	}
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool parses a boolean env var, falling back to defaultValue when unset or unparsable.
func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses a Go duration string such as "45m".
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
