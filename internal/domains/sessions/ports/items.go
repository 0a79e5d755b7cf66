package ports

import (
	"context"
	"time"
)

// ItemStore keeps string values per storage scope (a browser session). It
// backs the storage handed to the favorites store. Scopes outlive individual
// logins and are removed only once idle.
type ItemStore interface {
	GetItem(ctx context.Context, scope, key string) (string, bool, error)
	SetItem(ctx context.Context, scope, key, value string) error
	// Touch marks every value of the scope as used at the given time.
	Touch(ctx context.Context, scope string, at time.Time) error
	// PurgeIdle drops scopes whose values were last written or touched before
	// cutoff and returns how many values were removed.
	PurgeIdle(ctx context.Context, cutoff time.Time) (int, error)
}
