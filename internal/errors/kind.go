package errors

import (
	"errors"
	"net/http"
)

// Kind is the normalized name of a failure as reported to callers.
type Kind string

const (
	KindMethodNotAllowed        Kind = "MethodNotAllowed"
	KindMissingParameter        Kind = "MissingParameter"
	KindStateMismatch           Kind = "StateMismatch"
	KindAuthExchangeFailed      Kind = "AuthExchangeFailed"
	KindInvalidInput            Kind = "InvalidInput"
	KindAuthenticationFailed    Kind = "AuthenticationFailed"
	KindCredentialsInvalid      Kind = "CredentialsInvalid"
	KindRateLimited             Kind = "RateLimited"
	KindTextTooLong             Kind = "TextTooLong"
	KindDuplicatePost           Kind = "DuplicatePost"
	KindForbidden               Kind = "Forbidden"
	KindMissingTweetID          Kind = "MissingTweetId"
	KindUnexpectedProviderError Kind = "UnexpectedProviderError"
	KindConfiguration           Kind = "ConfigurationError"
	KindInternal                Kind = "InternalError"
)

type kindInfo struct {
	sentinel error
	status   int
	message  string
}

var kinds = map[Kind]kindInfo{
	KindMethodNotAllowed:        {ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
	KindMissingParameter:        {ErrMissingParameter, http.StatusBadRequest, "Missing required parameters"},
	KindStateMismatch:           {ErrStateMismatch, http.StatusBadRequest, "Invalid state parameter"},
	KindAuthExchangeFailed:      {ErrAuthExchangeFailed, http.StatusInternalServerError, "Failed to authenticate with Twitter"},
	KindInvalidInput:            {ErrInvalidInput, http.StatusBadRequest, "Tweet text is required and must be a string"},
	KindAuthenticationFailed:    {ErrAuthenticationFailed, http.StatusUnauthorized, "Authentication failed. Please check your Twitter credentials."},
	KindCredentialsInvalid:      {ErrCredentialsInvalid, http.StatusUnauthorized, "Your credentials are no longer valid. Please check your Twitter settings."},
	KindRateLimited:             {ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
	KindTextTooLong:             {ErrTextTooLong, http.StatusBadRequest, "Tweet text is too long"},
	KindDuplicatePost:           {ErrDuplicatePost, http.StatusBadRequest, "Duplicate tweet"},
	KindForbidden:               {ErrForbidden, http.StatusForbidden, "You are not authorized to perform this action. Please check your Twitter app permissions."},
	KindMissingTweetID:          {ErrMissingTweetID, http.StatusInternalServerError, "Failed to get tweet ID from response"},
	KindUnexpectedProviderError: {ErrUnexpectedProvider, http.StatusInternalServerError, "Twitter API error"},
	KindConfiguration:           {ErrConfiguration, http.StatusInternalServerError, "Server is not configured for this operation"},
	KindInternal:                {ErrInternal, http.StatusInternalServerError, "An unexpected error occurred"},
}

// kindOrder fixes the lookup order for KindOf so results never depend on map iteration.
var kindOrder = []Kind{
	KindMethodNotAllowed, KindMissingParameter, KindStateMismatch, KindAuthExchangeFailed,
	KindInvalidInput, KindAuthenticationFailed, KindCredentialsInvalid, KindRateLimited,
	KindTextTooLong, KindDuplicatePost, KindForbidden, KindMissingTweetID,
	KindUnexpectedProviderError, KindConfiguration, KindInternal,
}

func (k Kind) info() kindInfo {
	if info, ok := kinds[k]; ok {
		return info
	}
	return kinds[KindInternal]
}

// Status is the HTTP status reported for this kind.
func (k Kind) Status() int { return k.info().status }

// Message is the human readable text reported for this kind.
func (k Kind) Message() string { return k.info().message }

// Sentinel is the package-level error matching this kind.
func (k Kind) Sentinel() error { return k.info().sentinel }

// Error is a classified failure. It matches its kind's sentinel with errors.Is.
type Error struct {
	Kind    Kind
	Code    int    // provider error code, zero when the failure did not come from the provider
	Message string // overrides Kind.Message when set
	Details string // diagnostic text, only shown to callers when configured
	Cause   error
}

// New creates a classified error for kind with optional diagnostic details.
func New(kind Kind, details string) *Error {
	return &Error{Kind: kind, Details: details}
}

// WithCause classifies an underlying error.
func WithCause(kind Kind, cause error) *Error {
	e := &Error{Kind: kind, Cause: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Kind.Sentinel().Error()
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind.Sentinel()}
	}
	return []error{e.Kind.Sentinel(), e.Cause}
}

// UserMessage is the message shown to callers.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

// KindOf classifies any error. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	for _, kind := range kindOrder {
		if errors.Is(err, kinds[kind].sentinel) {
			return kind
		}
	}
	return KindInternal
}

// Classify returns err as an *Error, wrapping unclassified errors as KindInternal.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	return WithCause(KindOf(err), err)
}
