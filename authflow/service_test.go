package authflow_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-retro-poster/authflow"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "secret-1"
	testRedirectURI  = "http://localhost:3000/callback"
)

// fakeProvider is a token endpoint that honours PKCE and single-use codes.
type fakeProvider struct {
	mu         sync.Mutex
	challenges map[string]string // code -> S256 challenge it was issued for
	used       map[string]bool
	exchanges  int
	lookups    int
	srv        *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{challenges: map[string]string{}, used: map[string]bool{}}
	p.srv = httptest.NewServer(http.HandlerFunc(p.token))
	t.Cleanup(p.srv.Close)
	return p
}

// issue simulates the user approving the authorization URL.
func (p *fakeProvider) issue(t *testing.T, authURL, code string) (state string) {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURI, q.Get("redirect_uri"))

	p.mu.Lock()
	p.challenges[code] = q.Get("code_challenge")
	p.mu.Unlock()
	return q.Get("state")
}

func (p *fakeProvider) token(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exchanges++

	user, pass, ok := r.BasicAuth()
	if !ok || user != testClientID || pass != testClientSecret {
		writeTokenError(w, "invalid_client")
		return
	}
	code := r.FormValue("code")
	challenge, known := p.challenges[code]
	if !known || p.used[code] {
		writeTokenError(w, "invalid_grant")
		return
	}
	p.used[code] = true

	sum := sha256.Sum256([]byte(r.FormValue("code_verifier")))
	if base64.RawURLEncoding.EncodeToString(sum[:]) != challenge {
		writeTokenError(w, "invalid_grant")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "access-" + code,
		"token_type":   "bearer",
		"expires_in":   7200,
	})
}

func (p *fakeProvider) counts() (exchanges, lookups int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exchanges, p.lookups
}

func writeTokenError(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

type fixture struct {
	provider *fakeProvider
	service  *authflow.Service
	now      time.Time
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		provider: newFakeProvider(t),
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	svc, err := authflow.NewService(authflow.Settings{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  testRedirectURI,
		AuthURL:      "https://provider.example/i/oauth2/authorize",
		TokenURL:     f.provider.srv.URL + "/2/oauth2/token",
		Scopes:       []string{"tweet.read", "tweet.write", "users.read"},
	},
		authflow.WithNowTime(func() time.Time { return f.now }),
		authflow.WithUserLookup(func(_ context.Context, accessToken string) (string, error) {
			f.provider.mu.Lock()
			f.provider.lookups++
			f.provider.mu.Unlock()
			require.Contains(t, accessToken, "access-")
			return "ada", nil
		}),
	)
	require.NoError(t, err)
	f.service = svc
	return f
}

func TestNewService_RequiresClientSettings(t *testing.T) {
	_, err := authflow.NewService(authflow.Settings{ClientID: "id"})
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
	require.Contains(t, err.Error(), "client secret, callback url")
}

func TestBegin(t *testing.T) {
	f := setupFixture(t)

	auth, err := f.service.Begin(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, auth.Request.State)
	require.NotEmpty(t, auth.Request.CodeVerifier)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, f.now.Add(time.Hour), auth.Request.ExpiresAt)

	u, err := url.Parse(auth.URL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, auth.Request.State, q.Get("state"))
	require.Equal(t, "tweet.read tweet.write users.read", q.Get("scope"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.NotEqual(t, auth.Request.CodeVerifier, q.Get("code_challenge"))

	again, err := f.service.Begin(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, auth.Request.State, again.Request.State)
	require.NotEqual(t, auth.Request.CodeVerifier, again.Request.CodeVerifier)
}

func TestComplete_Success(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	auth, err := f.service.Begin(ctx)
	require.NoError(t, err)
	state := f.provider.issue(t, auth.URL, "code-1")

	result, err := f.service.Complete(ctx, authflow.Completion{
		Code:        "code-1",
		State:       state,
		StoredState: auth.Request.State,
		StoredToken: auth.Token,
	})
	require.NoError(t, err)
	require.Equal(t, "access-code-1", result.AccessToken)
	require.Equal(t, "ada", result.Username)
	exchanges, _ := f.provider.counts()
	require.Equal(t, 1, exchanges)
}

func TestComplete_MissingParameters(t *testing.T) {
	f := setupFixture(t)
	auth, err := f.service.Begin(context.Background())
	require.NoError(t, err)

	full := authflow.Completion{Code: "c", State: auth.Request.State, StoredState: auth.Request.State, StoredToken: auth.Token}
	tests := map[string]func(c *authflow.Completion){
		"code":         func(c *authflow.Completion) { c.Code = "" },
		"state":        func(c *authflow.Completion) { c.State = "" },
		"stored state": func(c *authflow.Completion) { c.StoredState = "" },
		"stored token": func(c *authflow.Completion) { c.StoredToken = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := full
			mutate(&c)
			_, err := f.service.Complete(context.Background(), c)
			require.ErrorIs(t, err, apperrors.ErrMissingParameter)
		})
	}
	exchanges, _ := f.provider.counts()
	require.Zero(t, exchanges)
}

func TestComplete_ProviderDenied(t *testing.T) {
	f := setupFixture(t)
	_, err := f.service.Complete(context.Background(), authflow.Completion{
		State:                    "s",
		ProviderError:            "access_denied",
		ProviderErrorDescription: "user cancelled",
	})
	require.ErrorIs(t, err, apperrors.ErrMissingParameter)
	require.Contains(t, err.Error(), "access_denied user cancelled")
}

func TestComplete_StateMismatchNeverExchanges(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	auth, err := f.service.Begin(ctx)
	require.NoError(t, err)
	f.provider.issue(t, auth.URL, "code-1")

	other, err := f.service.Begin(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		c    authflow.Completion
	}{
		{"redirect state differs from cookie", authflow.Completion{Code: "code-1", State: "forged", StoredState: auth.Request.State, StoredToken: auth.Token}},
		{"cookie state differs from sealed state", authflow.Completion{Code: "code-1", State: other.Request.State, StoredState: other.Request.State, StoredToken: auth.Token}},
		{"tampered token", authflow.Completion{Code: "code-1", State: auth.Request.State, StoredState: auth.Request.State, StoredToken: auth.Token + "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Complete(ctx, tt.c)
			require.ErrorIs(t, err, apperrors.ErrStateMismatch)
		})
	}
	exchanges, _ := f.provider.counts()
	require.Zero(t, exchanges)
}

func TestComplete_Expired(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	auth, err := f.service.Begin(ctx)
	require.NoError(t, err)
	state := f.provider.issue(t, auth.URL, "code-1")

	f.now = f.now.Add(time.Hour)

	_, err = f.service.Complete(ctx, authflow.Completion{Code: "code-1", State: state, StoredState: state, StoredToken: auth.Token})
	require.ErrorIs(t, err, apperrors.ErrStateMismatch)
	require.Contains(t, err.Error(), "expired")
	exchanges, _ := f.provider.counts()
	require.Zero(t, exchanges)
}

func TestComplete_ReplayedRequestIsRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	auth, err := f.service.Begin(ctx)
	require.NoError(t, err)
	state := f.provider.issue(t, auth.URL, "code-1")
	c := authflow.Completion{Code: "code-1", State: state, StoredState: state, StoredToken: auth.Token}

	_, err = f.service.Complete(ctx, c)
	require.NoError(t, err)

	_, err = f.service.Complete(ctx, c)
	require.ErrorIs(t, err, apperrors.ErrStateMismatch)
	exchanges, _ := f.provider.counts()
	require.Equal(t, 1, exchanges)
}

func TestComplete_ReusedCodeFails(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.service.Begin(ctx)
	require.NoError(t, err)
	state := f.provider.issue(t, first.URL, "code-1")
	_, err = f.service.Complete(ctx, authflow.Completion{Code: "code-1", State: state, StoredState: state, StoredToken: first.Token})
	require.NoError(t, err)

	// A fresh sign-in attempt presenting the already redeemed code.
	second, err := f.service.Begin(ctx)
	require.NoError(t, err)
	_, err = f.service.Complete(ctx, authflow.Completion{
		Code:        "code-1",
		State:       second.Request.State,
		StoredState: second.Request.State,
		StoredToken: second.Token,
	})
	require.ErrorIs(t, err, apperrors.ErrAuthExchangeFailed)
	exchanges, lookups := f.provider.counts()
	require.Equal(t, 2, exchanges, "exactly one exchange per completion, no retry")
	require.Equal(t, 1, lookups)
}

func TestComplete_UserLookupFailure(t *testing.T) {
	provider := newFakeProvider(t)
	svc, err := authflow.NewService(authflow.Settings{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  testRedirectURI,
		AuthURL:      "https://provider.example/authorize",
		TokenURL:     provider.srv.URL,
	}, authflow.WithUserLookup(func(context.Context, string) (string, error) {
		return "", context.DeadlineExceeded
	}))
	require.NoError(t, err)

	ctx := context.Background()
	auth, err := svc.Begin(ctx)
	require.NoError(t, err)
	state := provider.issue(t, auth.URL, "code-9")

	_, err = svc.Complete(ctx, authflow.Completion{Code: "code-9", State: state, StoredState: state, StoredToken: auth.Token})
	require.ErrorIs(t, err, apperrors.ErrAuthExchangeFailed)
}
