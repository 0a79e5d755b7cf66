package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
)

var (
	// ErrUnavailable wraps transport and upstream failures.
	ErrUnavailable = errors.New("dog catalog unavailable")
	// ErrSessionExpired signals the upstream rejected the session credentials.
	ErrSessionExpired = errors.New("dog catalog session expired")
)

// Catalog is the outbound port onto the external dog service (driven port).
type Catalog interface {
	Breeds(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query domain.SearchQuery) (*domain.PageResult, error)
	// SearchAt follows an opaque cursor, re-applying the current filters.
	SearchAt(ctx context.Context, cursor domain.Cursor, filters domain.SearchFilters) (*domain.PageResult, error)
	// Dogs resolves identifiers into records. Order is not guaranteed.
	Dogs(ctx context.Context, ids []string) ([]domain.Dog, error)
	Match(ctx context.Context, favorites []string) (*domain.Match, error)
}
