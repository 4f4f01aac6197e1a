// Package storage provides durable string-keyed byte storage for persisted
// unit state. The persistence decorator consumes only the Store contract;
// the backends here (memory, file, sqlite, remote) are interchangeable
// behind it and selected through Config or the named registry.
package storage

import "context"

// Store is a durable key-value store. Implementations must be safe for
// concurrent use within a process; nothing coordinates writers of the same
// key across processes, so the last write wins.
type Store interface {
	// Get retrieves the value for key. The second return reports presence:
	// a missing key yields (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes the value for key, creating or overwriting as needed.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Missing keys are ignored.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys present in the store, sorted.
	Keys(ctx context.Context) ([]string, error)
}
