// Package poster validates post text and submits it to the provider on behalf of a credential.
package poster

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jrsteele09/go-retro-poster/credentials"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/jrsteele09/go-retro-poster/twitter"
	"github.com/rs/zerolog"
)

// MaxTextLength is the longest post accepted, counted in Unicode code points.
const MaxTextLength = 280

// DefaultWebURL is the base of post permalinks.
const DefaultWebURL = "https://twitter.com"

// PostCreator creates a post. *twitter.Client satisfies it.
type PostCreator interface {
	CreatePost(ctx context.Context, text string) (*twitter.Post, error)
}

// ClientFactory builds the provider client for one submission from the credential in use.
type ClientFactory func(ctx context.Context, cred credentials.Credential) PostCreator

// Receipt describes a published post.
type Receipt struct {
	Data     twitter.Post
	TweetURL string
	PostedAt time.Time
}

// Submitter publishes posts. It holds no credential itself: one is supplied with every call.
type Submitter struct {
	newClient ClientFactory
	webURL    string
	nowTime   func() time.Time
}

// SubmitterOption defines a function type to modify the Submitter instance.
type SubmitterOption func(*Submitter)

// WithClientFactory replaces how provider clients are built (primarily for testing).
func WithClientFactory(factory ClientFactory) SubmitterOption {
	return func(s *Submitter) {
		s.newClient = factory
	}
}

// WithWebURL sets the permalink base.
func WithWebURL(webURL string) SubmitterOption {
	return func(s *Submitter) {
		if webURL != "" {
			s.webURL = strings.TrimSuffix(webURL, "/")
		}
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) SubmitterOption {
	return func(s *Submitter) {
		s.nowTime = nowFunc
	}
}

// NewSubmitter returns a submitter that talks to the API at apiURL.
func NewSubmitter(apiURL string, options ...SubmitterOption) *Submitter {
	s := &Submitter{
		newClient: func(ctx context.Context, cred credentials.Credential) PostCreator {
			return twitter.NewClient(cred.HTTPClient(ctx), apiURL)
		},
		webURL:  DefaultWebURL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ValidateText enforces 1..MaxTextLength characters.
func ValidateText(text string) error {
	if text == "" {
		return &apperrors.Error{Kind: apperrors.KindInvalidInput, Message: "Tweet text is required and must be a string"}
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return &apperrors.Error{
			Kind:    apperrors.KindInvalidInput,
			Message: "Tweet text must not exceed 280 characters",
			Details: "text has " + strconv.Itoa(n) + " characters",
		}
	}
	return nil
}

// Submit validates text and publishes it with cred. Nothing is retried: rate limits and duplicates
// are reported to the caller as they are.
func (s *Submitter) Submit(ctx context.Context, cred credentials.Credential, text string) (*Receipt, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apperrors.New(apperrors.KindAuthenticationFailed, "no credential supplied")
	}

	logger := zerolog.Ctx(ctx).With().Str("credential_mode", string(cred.Mode())).Logger()

	post, err := s.newClient(ctx, cred).CreatePost(ctx, text)
	if err != nil {
		var providerErr *twitter.ProviderError
		if errors.As(err, &providerErr) {
			mapped := fromProviderError(providerErr)
			logger.Warn().Int("provider_code", providerErr.Code).Str("kind", string(mapped.Kind)).Msg("provider rejected post")
			return nil, mapped
		}
		logger.Error().Err(err).Msg("posting failed")
		return nil, apperrors.WithCause(apperrors.KindUnexpectedProviderError, err)
	}
	if post == nil || post.ID == "" {
		return nil, apperrors.New(apperrors.KindMissingTweetID, "")
	}

	logger.Info().Str("tweet_id", post.ID).Msg("posted")
	return &Receipt{
		Data:     *post,
		TweetURL: PermalinkFor(s.webURL, post.ID),
		PostedAt: s.nowTime(),
	}, nil
}

// PermalinkFor builds <base>/i/web/status/<id>.
func PermalinkFor(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/i/web/status/" + id
}
