package ports

import "context"

// Storage is a session-scoped string key/value store, the server-side
// stand-in for a browser's session storage. Implementations must be safe for
// concurrent use.
type Storage interface {
	// GetItem returns the raw value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}
