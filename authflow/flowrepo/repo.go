// Package flowrepo remembers which sign-in attempts have already been completed so a replayed
// callback is rejected. It stores hashes of consumed states only, never verifiers or tokens.
package flowrepo

import "time"

type Repo interface {
	// Consume marks state as used until expiresAt. It returns false if state was already consumed.
	Consume(state string, expiresAt time.Time) (bool, error)
	// Len is the number of unexpired entries.
	Len() int
}
