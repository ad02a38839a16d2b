package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per normalized failure kind.
var (
	// Boundary errors
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidInput     = errors.New("invalid input")

	// Sign-in errors
	ErrMissingParameter   = errors.New("missing required parameters")
	ErrStateMismatch      = errors.New("invalid state parameter")
	ErrAuthExchangeFailed = errors.New("failed to authenticate with twitter")

	// Provider errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrCredentialsInvalid   = errors.New("credentials are no longer valid")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrTextTooLong          = errors.New("tweet text is too long")
	ErrDuplicatePost        = errors.New("duplicate tweet")
	ErrForbidden            = errors.New("not authorized to perform this action")
	ErrMissingTweetID       = errors.New("failed to get tweet id from response")
	ErrUnexpectedProvider   = errors.New("twitter api error")

	// General errors
	ErrConfiguration = errors.New("server is not configured")
	ErrInternal      = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
