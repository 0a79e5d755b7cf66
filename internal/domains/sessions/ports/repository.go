package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
)

var ErrNotFound = errors.New("session not found")

// Repository persists portal sessions.
type Repository interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes every session expired at now and returns their ids.
	PurgeExpired(ctx context.Context, now time.Time) ([]string, error)
}
