package config

import "time"

const (
	clientIDEnvVar     = "TWITTER_CLIENT_ID"
	clientSecretEnvVar = "TWITTER_CLIENT_SECRET"
	callbackURLEnvVar  = "TWITTER_CALLBACK_URL"
	authFlowTTLEnvVar  = "AUTH_FLOW_TTL"
)

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv(clientIDEnvVar, "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv(clientSecretEnvVar, "")
}

func (OAuth) GetCallbackURL() string {
	return GetEnv(callbackURLEnvVar, "")
}

// GetAuthFlowTTL is how long a sign-in attempt may take between /auth and /callback.
func (OAuth) GetAuthFlowTTL() time.Duration {
	return GetEnvDuration(authFlowTTLEnvVar, time.Hour)
}

func (OAuth) GetScopes() []string {
	return []string{"tweet.read", "tweet.write", "users.read"}
}
