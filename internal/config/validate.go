package config

import (
	"fmt"
	"sort"
	"strings"
)

// MissingOAuthVars lists the sign-in settings that are not configured.
func MissingOAuthVars(c OAuthConfig) []string {
	return missing(map[string]string{
		clientIDEnvVar:     c.GetClientID(),
		clientSecretEnvVar: c.GetClientSecret(),
		callbackURLEnvVar:  c.GetCallbackURL(),
	})
}

// MissingAppVars lists the app credential settings that are not configured.
func MissingAppVars(c ProviderConfig) []string {
	return missing(map[string]string{
		appKeyEnvVar:          c.GetAppKey(),
		appSecretEnvVar:       c.GetAppSecret(),
		appAccessTokenEnvVar:  c.GetAppAccessToken(),
		appAccessSecretEnvVar: c.GetAppAccessSecret(),
	})
}

// Validate reports configuration that makes startup impossible for the selected mode.
// OAuth settings are only checked lazily, when a sign-in is attempted.
func Validate(c Config) error {
	if c.GetCredentialMode() != CredentialModeApp {
		return nil
	}
	if names := MissingAppVars(c); len(names) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(names, ", "))
	}
	return nil
}

func missing(vars map[string]string) []string {
	var names []string
	for _, name := range sortedKeys(vars) {
		if vars[name] == "" {
			names = append(names, name)
		}
	}
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
