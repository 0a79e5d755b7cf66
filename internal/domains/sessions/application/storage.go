package application

import (
	"context"

	favports "github.com/Apurer/dog-finder/internal/domains/favorites/ports"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// scopedStorage narrows an ItemStore to the values of one browser session.
type scopedStorage struct {
	scope string
	items ports.ItemStore
}

func (s scopedStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.items.GetItem(ctx, s.scope, key)
}

func (s scopedStorage) SetItem(ctx context.Context, key, value string) error {
	return s.items.SetItem(ctx, s.scope, key, value)
}

var _ favports.Storage = scopedStorage{}
