package authflow

import "time"

// Request is one sign-in attempt: generated by Begin, carried by the user agent, consumed once by
// Complete.
type Request struct {
	State        string
	CodeVerifier string
	RedirectURI  string
	Scopes       []string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the request can no longer be completed.
func (r Request) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// MaxAge is the remaining lifetime in whole seconds, for cookie Max-Age.
func (r Request) MaxAge(now time.Time) int {
	if r.Expired(now) {
		return 0
	}
	return int(r.ExpiresAt.Sub(now).Seconds())
}
