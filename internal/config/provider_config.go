package config

const (
	apiURLEnvVar            = "TWITTER_API_URL"
	authURLEnvVar           = "TWITTER_AUTH_URL"
	tokenURLEnvVar          = "TWITTER_TOKEN_URL"
	webURLEnvVar            = "TWITTER_WEB_URL"
	appKeyEnvVar            = "VITE_TWITTER_API_KEY"
	appSecretEnvVar         = "VITE_TWITTER_API_SECRET"
	appAccessTokenEnvVar    = "VITE_TWITTER_ACCESS_TOKEN"
	appAccessSecretEnvVar   = "VITE_TWITTER_ACCESS_SECRET"
	verifyCredentialsEnvVar = "VERIFY_CREDENTIALS"
)

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetAPIURL() string {
	return GetEnv(apiURLEnvVar, "https://api.twitter.com/")
}

func (Provider) GetAuthURL() string {
	return GetEnv(authURLEnvVar, "https://twitter.com/i/oauth2/authorize")
}

func (Provider) GetTokenURL() string {
	return GetEnv(tokenURLEnvVar, "https://api.twitter.com/2/oauth2/token")
}

// GetWebURL is the base used to build post permalinks.
func (Provider) GetWebURL() string {
	return GetEnv(webURLEnvVar, "https://twitter.com")
}

func (Provider) GetAppKey() string {
	return GetEnv(appKeyEnvVar, "")
}

func (Provider) GetAppSecret() string {
	return GetEnv(appSecretEnvVar, "")
}

func (Provider) GetAppAccessToken() string {
	return GetEnv(appAccessTokenEnvVar, "")
}

func (Provider) GetAppAccessSecret() string {
	return GetEnv(appAccessSecretEnvVar, "")
}

func (Provider) GetVerifyCredentials() bool {
	return GetEnvBool(verifyCredentialsEnvVar, true)
}
