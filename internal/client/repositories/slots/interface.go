// Package slots is the client's persistent key/value store: a handful of
// well-known slots (session token, stored user summary) kept in SQLite.
package slots

import "context"

// Repository reads and writes named slots. Get returns (nil, nil) for a
// slot that was never written or has been deleted.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
