// Package store persists small client records, such as the signed-in session, by key.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a key-value store for client state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
