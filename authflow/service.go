// Package authflow implements the OAuth2 authorization-code-with-PKCE sign-in against the provider.
//
// Begin produces the authorization URL plus a Request the caller hands to the user agent. Complete
// checks the redirect against that Request, exchanges the single-use code exactly once and looks up
// the signed-in user's handle. Nothing is retried.
package authflow

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"github.com/jrsteele09/go-retro-poster/authflow/flowrepo"
	"github.com/jrsteele09/go-retro-poster/credentials"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/jrsteele09/go-retro-poster/twitter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	stateLength = 32
	DefaultTTL  = time.Hour
)

// Settings configures the sign-in flow.
type Settings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIURL       string
	Scopes       []string
	TTL          time.Duration
	// CookieSecret signs the flow token; the client secret is used when empty.
	CookieSecret string
}

// Authorization is what Begin hands back: where to send the user, and what to remember.
type Authorization struct {
	URL     string
	Request Request
	// Token is the signed form of Request, suitable for a cookie.
	Token string
}

// Completion carries the redirect parameters and what the user agent stored at Begin.
type Completion struct {
	Code        string
	State       string
	StoredState string
	StoredToken string
	// ProviderError is set when the provider redirected with ?error= instead of a code.
	ProviderError            string
	ProviderErrorDescription string
}

// Result is a completed sign-in.
type Result struct {
	AccessToken string
	Username    string
	Expiry      time.Time
}

// UserLookup resolves the handle of the account an access token belongs to.
type UserLookup func(ctx context.Context, accessToken string) (string, error)

// Service runs the sign-in flow.
type Service struct {
	oauth      *oauth2.Config
	codec      *Codec
	consumed   flowrepo.Repo
	lookupUser UserLookup
	ttl        time.Duration
	nowTime    func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithUserLookup replaces the provider user lookup.
func WithUserLookup(lookup UserLookup) ServiceOption {
	return func(s *Service) {
		s.lookupUser = lookup
	}
}

// WithConsumedRepo replaces the consumed-state repository.
func WithConsumedRepo(repo flowrepo.Repo) ServiceOption {
	return func(s *Service) {
		s.consumed = repo
	}
}

// NewService validates settings and builds the flow. Missing client settings are a configuration error.
func NewService(settings Settings, options ...ServiceOption) (*Service, error) {
	var missing []string
	if settings.ClientID == "" {
		missing = append(missing, "client id")
	}
	if settings.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if settings.RedirectURL == "" {
		missing = append(missing, "callback url")
	}
	if len(missing) > 0 {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "[NewService] missing %s", strings.Join(missing, ", "))
	}

	secret := settings.CookieSecret
	if secret == "" {
		secret = settings.ClientSecret
	}
	codec, err := NewCodec(secret)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] creating codec")
	}

	ttl := settings.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Service{
		oauth: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			RedirectURL:  settings.RedirectURL,
			Scopes:       settings.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   settings.AuthURL,
				TokenURL:  settings.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		codec:   codec,
		ttl:     ttl,
		nowTime: time.Now,
		lookupUser: func(ctx context.Context, accessToken string) (string, error) {
			bearer := credentials.Bearer{AccessToken: accessToken}
			user, err := twitter.NewClient(bearer.HTTPClient(ctx), settings.APIURL).Me(ctx)
			if err != nil {
				return "", err
			}
			return user.Username, nil
		},
	}
	for _, opt := range options {
		opt(s)
	}
	if s.consumed == nil {
		s.consumed = flowrepo.NewInMemoryRepo(s.nowTime)
	}
	return s, nil
}

// TTL is how long a Request stays valid.
func (s *Service) TTL() time.Duration { return s.ttl }

// Begin starts a sign-in attempt with a fresh state and PKCE verifier.
func (s *Service) Begin(ctx context.Context) (*Authorization, error) {
	state, err := generateRandomString(stateLength)
	if err != nil {
		return nil, errors.Wrap(err, "[Begin] generating state")
	}
	verifier := oauth2.GenerateVerifier()
	now := truncate(s.nowTime())

	req := Request{
		State:        state,
		CodeVerifier: verifier,
		RedirectURI:  s.oauth.RedirectURL,
		Scopes:       append([]string(nil), s.oauth.Scopes...),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	token, err := s.codec.Encode(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Begin] sealing request")
	}

	zerolog.Ctx(ctx).Debug().Time("expires_at", req.ExpiresAt).Msg("authorization started")
	return &Authorization{
		URL:     s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)),
		Request: req,
		Token:   token,
	}, nil
}

// Complete finishes a sign-in attempt. Parameter and state problems are reported before any call to
// the provider; the code is exchanged at most once.
func (s *Service) Complete(ctx context.Context, c Completion) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if c.Code == "" && c.ProviderError != "" {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindMissingParameter,
			Message: "Authorization was not granted",
			Details: strings.TrimSpace(c.ProviderError + " " + c.ProviderErrorDescription),
		}
	}
	if c.Code == "" || c.State == "" || c.StoredState == "" || c.StoredToken == "" {
		return nil, apperrors.New(apperrors.KindMissingParameter, missingNames(c))
	}

	req, err := s.codec.Decode(c.StoredToken)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.KindStateMismatch, err)
	}
	if req.Expired(s.nowTime()) {
		return nil, apperrors.New(apperrors.KindStateMismatch, "authorization request expired")
	}
	if !equal(c.State, c.StoredState) || !equal(c.State, req.State) {
		logger.Warn().Msg("state mismatch on callback")
		return nil, apperrors.New(apperrors.KindStateMismatch, "state does not match the stored value")
	}

	fresh, err := s.consumed.Consume(req.State, req.ExpiresAt)
	if err != nil {
		return nil, apperrors.WithCause(apperrors.KindInternal, err)
	}
	if !fresh {
		logger.Warn().Msg("authorization request replayed")
		return nil, apperrors.New(apperrors.KindStateMismatch, "authorization request already used")
	}

	token, err := s.oauth.Exchange(ctx, c.Code, oauth2.VerifierOption(req.CodeVerifier))
	if err != nil {
		logger.Error().Err(err).Msg("token exchange failed")
		return nil, apperrors.WithCause(apperrors.KindAuthExchangeFailed, err)
	}

	username, err := s.lookupUser(ctx, token.AccessToken)
	if err != nil {
		logger.Error().Err(err).Msg("user lookup failed")
		return nil, apperrors.WithCause(apperrors.KindAuthExchangeFailed, err)
	}

	logger.Info().Str("username", username).Msg("signed in")
	return &Result{
		AccessToken: token.AccessToken,
		Username:    username,
		Expiry:      token.Expiry,
	}, nil
}

func missingNames(c Completion) string {
	var names []string
	for _, p := range []struct{ name, value string }{
		{"code", c.Code},
		{"state", c.State},
		{"stored state", c.StoredState},
		{"stored verifier", c.StoredToken},
	} {
		if p.value == "" {
			names = append(names, p.name)
		}
	}
	return "missing " + strings.Join(names, ", ")
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
