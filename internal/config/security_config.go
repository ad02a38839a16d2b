package config

type SecurityConfig interface {
	GetCookieSecret() string
	GetExposeErrorDetails() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetCookieSecret is the key material for signing the sign-in flow cookie.
// When unset the OAuth client secret is used instead.
func (Security) GetCookieSecret() string {
	return GetEnv("COOKIE_SECRET", "")
}

// GetExposeErrorDetails controls whether provider error text is returned to callers.
func (Security) GetExposeErrorDetails() bool {
	return GetEnvBool("EXPOSE_ERROR_DETAILS", EnvVars{}.GetEnv() == "DEV")
}
