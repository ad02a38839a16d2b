package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	ProviderConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetCredentialMode() CredentialMode
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// OAuthConfig holds the settings for the user sign-in flow.
type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetCallbackURL() string
	GetAuthFlowTTL() time.Duration
	GetScopes() []string
}

// ProviderConfig describes where the third-party API lives and the app-level secrets used to call it.
type ProviderConfig interface {
	GetAPIURL() string
	GetAuthURL() string
	GetTokenURL() string
	GetWebURL() string
	GetAppKey() string
	GetAppSecret() string
	GetAppAccessToken() string
	GetAppAccessSecret() string
	GetVerifyCredentials() bool
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Provider
	Security
}

func New() Config {
	return mainConfig{}
}
