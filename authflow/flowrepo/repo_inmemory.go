package flowrepo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// Entries are evicted once their sign-in attempt could no longer be completed anyway.
type InMemoryRepo struct {
	mu       sync.Mutex
	consumed map[string]time.Time
	nowTime  func() time.Time
}

// NewInMemoryRepo creates a new in-memory consumed-state repository
func NewInMemoryRepo(nowTime func() time.Time) *InMemoryRepo {
	if nowTime == nil {
		nowTime = time.Now
	}
	return &InMemoryRepo{
		consumed: make(map[string]time.Time),
		nowTime:  nowTime,
	}
}

// Consume records state as used
func (r *InMemoryRepo) Consume(state string, expiresAt time.Time) (bool, error) {
	if state == "" {
		return false, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	r.evictExpired(now)

	key := hashState(state)
	if _, exists := r.consumed[key]; exists {
		return false, nil
	}
	r.consumed[key] = expiresAt
	return true, nil
}

// Len returns the number of consumed states still tracked
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired(r.nowTime())
	return len(r.consumed)
}

func (r *InMemoryRepo) evictExpired(now time.Time) {
	for key, expiresAt := range r.consumed {
		if !now.Before(expiresAt) {
			delete(r.consumed, key)
		}
	}
}

func hashState(state string) string {
	sum := sha256.Sum256([]byte(state))
	return hex.EncodeToString(sum[:])
}
