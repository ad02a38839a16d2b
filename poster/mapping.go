package poster

import (
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/jrsteele09/go-retro-poster/twitter"
)

// MapProviderCode normalizes a provider error code. It is a pure function: the same code always
// yields the same kind.
func MapProviderCode(code int) apperrors.Kind {
	switch code {
	case twitter.CodeBadAuthentication:
		return apperrors.KindAuthenticationFailed
	case twitter.CodeRateLimited:
		return apperrors.KindRateLimited
	case twitter.CodeTextTooLong:
		return apperrors.KindTextTooLong
	case twitter.CodeDuplicate:
		return apperrors.KindDuplicatePost
	case twitter.CodeCredentialsRevoked:
		return apperrors.KindCredentialsInvalid
	case twitter.CodeForbidden:
		return apperrors.KindForbidden
	default:
		return apperrors.KindUnexpectedProviderError
	}
}

func fromProviderError(err *twitter.ProviderError) *apperrors.Error {
	return &apperrors.Error{
		Kind:    MapProviderCode(err.Code),
		Code:    err.Code,
		Details: err.Message,
		Cause:   err,
	}
}
