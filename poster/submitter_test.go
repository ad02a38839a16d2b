package poster_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-retro-poster/credentials"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/jrsteele09/go-retro-poster/poster"
	"github.com/jrsteele09/go-retro-poster/twitter"
	"github.com/stretchr/testify/require"
)

// fakeCreator records calls and replays a canned response.
type fakeCreator struct {
	calls []string
	post  *twitter.Post
	err   error
}

func (f *fakeCreator) CreatePost(_ context.Context, text string) (*twitter.Post, error) {
	f.calls = append(f.calls, text)
	return f.post, f.err
}

func newSubmitter(creator *fakeCreator) *poster.Submitter {
	return poster.NewSubmitter("http://unused",
		poster.WithClientFactory(func(context.Context, credentials.Credential) poster.PostCreator { return creator }),
		poster.WithNowTime(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
}

var bearer = credentials.Bearer{AccessToken: "token", Username: "ada"}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"one character", "a", false},
		{"exactly 280", strings.Repeat("a", 280), false},
		{"281", strings.Repeat("a", 281), true},
		{"280 multibyte", strings.Repeat("é", 280), false},
		{"281 emoji", strings.Repeat("🙂", 281), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := poster.ValidateText(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	creator := &fakeCreator{post: &twitter.Post{ID: "1234", Text: "hello"}}
	s := newSubmitter(creator)

	receipt, err := s.Submit(context.Background(), bearer, "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"hello"}, creator.calls)
	require.Equal(t, "1234", receipt.Data.ID)
	require.Equal(t, "https://twitter.com/i/web/status/1234", receipt.TweetURL)
	require.True(t, strings.HasSuffix(receipt.TweetURL, receipt.Data.ID))
}

func TestSubmit_InvalidInputMakesNoCall(t *testing.T) {
	creator := &fakeCreator{post: &twitter.Post{ID: "1"}}
	s := newSubmitter(creator)

	for _, text := range []string{"", strings.Repeat("x", 281)} {
		_, err := s.Submit(context.Background(), bearer, text)
		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
	require.Empty(t, creator.calls)
}

func TestSubmit_MissingTweetID(t *testing.T) {
	for _, post := range []*twitter.Post{nil, {Text: "hello"}} {
		s := newSubmitter(&fakeCreator{post: post})
		_, err := s.Submit(context.Background(), bearer, "hello")
		require.ErrorIs(t, err, apperrors.ErrMissingTweetID)
	}
}

func TestSubmit_ProviderErrorsAreMapped(t *testing.T) {
	tests := []struct {
		code       int
		wantKind   apperrors.Kind
		wantStatus int
	}{
		{32, apperrors.KindAuthenticationFailed, http.StatusUnauthorized},
		{88, apperrors.KindRateLimited, http.StatusTooManyRequests},
		{186, apperrors.KindTextTooLong, http.StatusBadRequest},
		{187, apperrors.KindDuplicatePost, http.StatusBadRequest},
		{220, apperrors.KindCredentialsInvalid, http.StatusUnauthorized},
		{403, apperrors.KindForbidden, http.StatusForbidden},
		{130, apperrors.KindUnexpectedProviderError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.wantKind), func(t *testing.T) {
			creator := &fakeCreator{err: &twitter.ProviderError{Code: tt.code, Message: "provider says no"}}
			s := newSubmitter(creator)

			// repeated identical failures classify identically
			for i := 0; i < 2; i++ {
				_, err := s.Submit(context.Background(), bearer, "hello")
				var classified *apperrors.Error
				require.ErrorAs(t, err, &classified)
				require.Equal(t, tt.wantKind, classified.Kind)
				require.Equal(t, tt.code, classified.Code)
				require.Equal(t, tt.wantStatus, classified.Kind.Status())
				require.Equal(t, "provider says no", classified.Details)
			}
			require.Len(t, creator.calls, 2, "no retries")
		})
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	s := newSubmitter(&fakeCreator{err: errors.New("dial tcp: connection refused")})

	_, err := s.Submit(context.Background(), bearer, "hello")
	require.ErrorIs(t, err, apperrors.ErrUnexpectedProvider)
	require.Contains(t, err.Error(), "connection refused")
}

func TestSubmit_NoCredential(t *testing.T) {
	creator := &fakeCreator{}
	_, err := newSubmitter(creator).Submit(context.Background(), nil, "hello")
	require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	require.Empty(t, creator.calls)
}

func TestMapProviderCode_Deterministic(t *testing.T) {
	for code := 0; code < 500; code++ {
		require.Equal(t, poster.MapProviderCode(code), poster.MapProviderCode(code))
	}
	require.Equal(t, apperrors.KindUnexpectedProviderError, poster.MapProviderCode(0))
}

func TestPermalinkFor(t *testing.T) {
	require.Equal(t, "https://x.com/i/web/status/99", poster.PermalinkFor("https://x.com/", "99"))
}
