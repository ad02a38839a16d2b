// Package credentials holds the two ways the composer can authorise calls to the provider:
// process-wide app credentials (OAuth1, four secrets) or a per-user OAuth2 bearer token.
package credentials

import (
	"context"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"golang.org/x/oauth2"
)

type Mode string

const (
	ModeApp    Mode = "app"
	ModeBearer Mode = "bearer"
)

// Credential authorises outbound provider requests.
type Credential interface {
	Mode() Mode
	HTTPClient(ctx context.Context) *http.Client
}

// AppSecrets is the subset of configuration holding the app credentials.
type AppSecrets interface {
	GetAppKey() string
	GetAppSecret() string
	GetAppAccessToken() string
	GetAppAccessSecret() string
}

// App is the static four-part credential. It is loaded once and never modified.
type App struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

var _ Credential = (*App)(nil)

// LoadApp reads the app credentials, listing every missing secret in the error.
func LoadApp(secrets AppSecrets) (*App, error) {
	app := &App{
		ConsumerKey:    secrets.GetAppKey(),
		ConsumerSecret: secrets.GetAppSecret(),
		AccessToken:    secrets.GetAppAccessToken(),
		AccessSecret:   secrets.GetAppAccessSecret(),
	}
	if missing := app.missing(); len(missing) > 0 {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "missing app credentials (%s)", strings.Join(missing, ", "))
	}
	return app, nil
}

func (a *App) missing() []string {
	var names []string
	for _, field := range []struct{ name, value string }{
		{"api key", a.ConsumerKey},
		{"api secret", a.ConsumerSecret},
		{"access token", a.AccessToken},
		{"access secret", a.AccessSecret},
	} {
		if field.value == "" {
			names = append(names, field.name)
		}
	}
	return names
}

func (a *App) Mode() Mode { return ModeApp }

// HTTPClient signs requests with OAuth1 using the app's consumer and access secrets.
func (a *App) HTTPClient(ctx context.Context) *http.Client {
	config := oauth1.NewConfig(a.ConsumerKey, a.ConsumerSecret)
	return config.Client(ctx, oauth1.NewToken(a.AccessToken, a.AccessSecret))
}

// Bearer is a per-user OAuth2 access token obtained by signing in.
type Bearer struct {
	AccessToken string
	Username    string
}

var _ Credential = Bearer{}

func (b Bearer) Mode() Mode { return ModeBearer }

func (b Bearer) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: b.AccessToken,
		TokenType:   "Bearer",
	}))
}

// BearerFromRequest extracts "Authorization: Bearer <token>".
func BearerFromRequest(r *http.Request) (Bearer, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Bearer{}, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return Bearer{}, false
	}
	return Bearer{AccessToken: strings.TrimSpace(parts[1])}, true
}

// Resolve picks the credential for a request: a bearer token wins, then the app credential.
// Exactly one credential is ever returned.
func Resolve(r *http.Request, app *App) (Credential, error) {
	if bearer, ok := BearerFromRequest(r); ok {
		return bearer, nil
	}
	if r.Header.Get("Authorization") != "" {
		return nil, apperrors.New(apperrors.KindAuthenticationFailed, "malformed Authorization header")
	}
	if app != nil {
		return app, nil
	}
	return nil, apperrors.New(apperrors.KindAuthenticationFailed, "no credentials: sign in first")
}
