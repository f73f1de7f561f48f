package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when the key does not exist. Absence is a
// normal outcome for callers, not a store failure.
var ErrNotFound = errors.New("key not found")

// UpdateFunc receives the current value of a key (nil when the key does not
// exist) and returns the next value. Returning nil deletes the key.
type UpdateFunc func(current []byte) ([]byte, error)

// KV is the associative store the custody layer runs against. Implementations
// must make Update an atomic read-modify-write so concurrent mutations of the
// same key cannot lose an update.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// Delete is idempotent; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Update(ctx context.Context, key string, fn UpdateFunc) error
}
