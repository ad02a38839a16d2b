package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-retro-poster/client/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrNothingToPost is returned when the draft is blank, too long or already being posted.
	ErrNothingToPost = errors.New("nothing to post")
	// ErrNotSignedIn is returned by operations that need a signed-in session.
	ErrNotSignedIn = errors.New("not signed in")
)

// App ties the session, the server API, the history and the composer together.
type App struct {
	api      *API
	store    store.Store
	session  Session
	history  *History
	composer *Composer
	nowTime  func() time.Time
	newID    func() string
}

// AppOption defines a function type to modify the App instance.
type AppOption func(*App)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AppOption {
	return func(a *App) {
		a.nowTime = nowFunc
	}
}

// WithIDGenerator sets how post record ids are made.
func WithIDGenerator(newID func() string) AppOption {
	return func(a *App) {
		a.newID = newID
	}
}

// NewApp loads the persisted session from st.
func NewApp(ctx context.Context, api *API, st store.Store, options ...AppOption) (*App, error) {
	a := &App{
		api:      api,
		store:    st,
		history:  NewHistory(),
		composer: &Composer{},
		nowTime:  time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		opt(a)
	}
	if err := a.session.Load(ctx, st); err != nil {
		return nil, errors.Wrap(err, "[NewApp] loading session")
	}
	return a, nil
}

func (a *App) Session() Session { return a.session }

// Username is the signed-in handle.
func (a *App) Username() (string, error) {
	if !a.session.IsAuthenticated {
		return "", ErrNotSignedIn
	}
	return a.session.Username, nil
}

func (a *App) History() *History { return a.history }

func (a *App) Composer() *Composer { return a.composer }

// BeginLogin returns the URL the user signs in at.
func (a *App) BeginLogin(ctx context.Context) (string, error) {
	return a.api.BeginLogin(ctx)
}

// CompleteLogin finishes sign-in from the provider redirect URL and persists the session.
func (a *App) CompleteLogin(ctx context.Context, redirectURL string) error {
	result, err := a.api.CompleteLogin(ctx, redirectURL)
	if err != nil {
		return err
	}
	a.session.SetAuth(result.AccessToken, result.Username)
	zerolog.Ctx(ctx).Info().Str("username", result.Username).Msg("signed in")
	return a.session.Save(ctx, a.store)
}

// Logout clears the session and removes it from the store.
func (a *App) Logout(ctx context.Context) error {
	a.session.Clear()
	return a.session.Save(ctx, a.store)
}

// Submit posts the composer's draft. Every attempt that reaches the server is added to the history;
// the returned error is the server's, the record carries its message.
func (a *App) Submit(ctx context.Context) (PostRecord, error) {
	text, ok := a.composer.start()
	if !ok {
		return PostRecord{}, ErrNothingToPost
	}

	record := PostRecord{
		ID:        a.newID(),
		Content:   text,
		Timestamp: a.nowTime(),
	}
	result, err := a.api.Post(ctx, a.session, text)
	if err != nil {
		record.Error = err.Error()
	} else {
		record.TweetID = result.Data.ID
		record.TweetURL = result.TweetURL
	}
	a.history.Add(record)
	a.composer.finish(err == nil)

	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("post failed")
		return record, err
	}
	zerolog.Ctx(ctx).Info().Str("tweet_id", record.TweetID).Msg("posted")
	return record, nil
}

// Post replaces the draft with text and submits it.
func (a *App) Post(ctx context.Context, text string) (PostRecord, error) {
	if a.composer.Posting() {
		return PostRecord{}, ErrNothingToPost
	}
	a.composer.SetDraft(text)
	return a.Submit(ctx)
}
