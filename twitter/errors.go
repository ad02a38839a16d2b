package twitter

import (
	"fmt"
	"net/http"

	gotwitter "github.com/dghubble/go-twitter/twitter"
)

// Provider error codes with a documented meaning.
const (
	CodeBadAuthentication  = 32
	CodeRateLimited        = 88
	CodeTextTooLong        = 186
	CodeDuplicate          = 187
	CodeCredentialsRevoked = 220
	CodeForbidden          = 403
)

// errorBody covers both API generations: v1.1 style {"errors":[{"code":..,"message":..}]} and
// v2 problem documents {"title":..,"detail":..,"status":..}.
type errorBody struct {
	Errors []gotwitter.ErrorDetail `json:"errors"`
	Title  string                  `json:"title"`
	Detail string                  `json:"detail"`
	Type   string                  `json:"type"`
	Status int                     `json:"status"`
}

// ProviderError is a failure reported by the API.
type ProviderError struct {
	Code    int    // provider error code, see providerCode
	Status  int    // HTTP status of the response
	Message string // provider supplied text
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("twitter: %d %s", e.Code, e.Message)
}

func newProviderError(status int, body errorBody) *ProviderError {
	return &ProviderError{
		Code:    providerCode(status, body),
		Status:  status,
		Message: body.message(status),
	}
}

// providerCode prefers an explicit code from the body. v2 responses rarely carry one, so the statuses
// that have a direct v1.1 equivalent are translated and everything else reports the HTTP status.
func providerCode(status int, body errorBody) int {
	for _, detail := range body.Errors {
		if detail.Code != 0 {
			return detail.Code
		}
	}
	switch status {
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusUnauthorized:
		return CodeBadAuthentication
	}
	return status
}

func (b errorBody) message(status int) string {
	apiErr := gotwitter.APIError{Errors: b.Errors}
	switch {
	case !apiErr.Empty() && apiErr.Errors[0].Message != "":
		return apiErr.Errors[0].Message
	case b.Detail != "":
		return b.Detail
	case b.Title != "":
		return b.Title
	}
	return http.StatusText(status)
}
