package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-retro-poster/client"
	"github.com/jrsteele09/go-retro-poster/client/store"
	"github.com/stretchr/testify/require"
)

// posterServer fakes the HTTP boundary: /auth sets the state cookie, /callback requires it back.
type posterServer struct {
	mu        sync.Mutex
	srv       *httptest.Server
	posts     []string
	lastAuth  string
	failWith  int
	callbacks int
}

func newPosterServer(t *testing.T) *posterServer {
	t.Helper()
	p := &posterServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "state", Value: "s1", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"url": "https://provider.example/authorize?state=s1"})
	})
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.callbacks++
		p.mu.Unlock()
		c, err := r.Cookie("state")
		if err != nil || r.URL.Query().Get("code") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required parameters", "kind": "MissingParameter"})
			return
		}
		if c.Value != r.URL.Query().Get("state") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid state parameter", "kind": "StateMismatch"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "tok", "username": "ada"})
	})
	mux.HandleFunc("POST /tweet", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		p.mu.Lock()
		p.lastAuth = r.Header.Get("Authorization")
		failWith := p.failWith
		p.posts = append(p.posts, body.Text)
		id := strconv.Itoa(len(p.posts))
		p.mu.Unlock()

		if failWith != 0 {
			writeJSON(w, failWith, map[string]any{"error": "Rate limit exceeded. Please try again later.", "kind": "RateLimited", "code": 88})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"data":      map[string]string{"id": id, "text": body.Text},
			"tweet_url": "https://twitter.com/i/web/status/" + id,
		})
	})
	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func (p *posterServer) authorization() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAuth
}

func (p *posterServer) postCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.posts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	server *posterServer
	store  store.Store
	app    *client.App
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{server: newPosterServer(t), store: store.NewMemory()}
	api, err := client.NewAPI(f.server.srv.URL)
	require.NoError(t, err)

	ids := 0
	f.app, err = client.NewApp(context.Background(), api, f.store,
		client.WithNowTime(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }),
		client.WithIDGenerator(func() string { ids++; return "rec-" + strconv.Itoa(ids) }),
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.app.BeginLogin(ctx)
	require.NoError(t, err)
	require.NoError(t, f.app.CompleteLogin(ctx, "http://localhost:3000/callback?code=c&state=s1"))
}

func TestApp_Login(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.app.Username()
	require.ErrorIs(t, err, client.ErrNotSignedIn)

	url, err := f.app.BeginLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://provider.example/authorize?state=s1", url)

	require.NoError(t, f.app.CompleteLogin(ctx, "http://localhost:3000/callback?code=c&state=s1"))
	username, err := f.app.Username()
	require.NoError(t, err)
	require.Equal(t, "ada", username)

	// Persisted: a new app over the same store starts signed in.
	api, err := client.NewAPI(f.server.srv.URL)
	require.NoError(t, err)
	reopened, err := client.NewApp(ctx, api, f.store)
	require.NoError(t, err)
	require.Equal(t, client.Session{AccessToken: "tok", Username: "ada", IsAuthenticated: true}, reopened.Session())
}

func TestApp_LoginStateMismatch(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	_, err := f.app.BeginLogin(ctx)
	require.NoError(t, err)

	err = f.app.CompleteLogin(ctx, "http://localhost:3000/callback?code=c&state=other")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "StateMismatch", apiErr.Kind)
	require.False(t, f.app.Session().IsAuthenticated)
}

func TestApp_CompleteLoginWithoutBegin(t *testing.T) {
	f := setupFixture(t)
	err := f.app.CompleteLogin(context.Background(), "http://localhost:3000/callback?code=c&state=s1")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "MissingParameter", apiErr.Kind)
}

func TestApp_Logout(t *testing.T) {
	f := setupFixture(t)
	f.signIn(t)
	ctx := context.Background()

	require.NoError(t, f.app.Logout(ctx))
	require.Equal(t, client.Session{}, f.app.Session())
	_, err := f.store.Get(ctx, client.SessionKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestApp_Post(t *testing.T) {
	f := setupFixture(t)
	f.signIn(t)
	ctx := context.Background()

	record, err := f.app.Post(ctx, "hello")
	require.NoError(t, err)
	require.Equal(t, "rec-1", record.ID)
	require.Equal(t, "1", record.TweetID)
	require.Equal(t, "https://twitter.com/i/web/status/1", record.TweetURL)
	require.Equal(t, "Bearer tok", f.server.authorization())
	require.Empty(t, f.app.Composer().Draft(), "published draft is cleared")

	f.server.mu.Lock()
	f.server.failWith = http.StatusTooManyRequests
	f.server.mu.Unlock()

	record, err = f.app.Post(ctx, "again")
	require.Error(t, err)
	require.Equal(t, "Rate limit exceeded. Please try again later.", record.Error)
	require.True(t, record.Failed())
	require.Equal(t, "again", f.app.Composer().Draft(), "failed draft is kept")

	records := f.app.History().Records()
	require.Len(t, records, 2)
	require.Equal(t, "again", records[0].Content, "newest first")
	require.Equal(t, "hello", records[1].Content)
}

func TestApp_PostWithoutSessionUsesServerCredentials(t *testing.T) {
	f := setupFixture(t)
	_, err := f.app.Post(context.Background(), "hello")
	require.NoError(t, err)
	require.Empty(t, f.server.authorization())
}

func TestApp_PostNothing(t *testing.T) {
	f := setupFixture(t)
	tests := map[string]string{
		"empty":    "",
		"blank":    "   \n",
		"too long": string(make([]rune, 281)),
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.app.Post(context.Background(), text)
			require.ErrorIs(t, err, client.ErrNothingToPost)
		})
	}
	require.Zero(t, f.app.History().Len())
	require.Zero(t, f.server.postCount())
}

func TestAPI_ServerErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "bad gateway")
	}))
	defer srv.Close()

	api, err := client.NewAPI(srv.URL)
	require.NoError(t, err)
	_, err = api.Post(context.Background(), client.Session{}, "hello")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "poster server: Bad Gateway", apiErr.Error())
}

func TestNewAPI_InvalidURL(t *testing.T) {
	_, err := client.NewAPI("not a url")
	require.Error(t, err)
}
