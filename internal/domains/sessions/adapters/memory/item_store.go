package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

type bucket struct {
	values  map[string]string
	touched time.Time
}

// ItemStore is an in-memory ItemStore implementation.
type ItemStore struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	now     func() time.Time
}

// ItemStoreOption configures NewItemStore.
type ItemStoreOption func(*ItemStore)

// WithClock overrides time.Now for write stamps.
func WithClock(now func() time.Time) ItemStoreOption {
	return func(s *ItemStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewItemStore(opts ...ItemStoreOption) *ItemStore {
	s := &ItemStore{buckets: make(map[string]*bucket), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ItemStore) GetItem(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[scope]
	if !ok {
		return "", false, nil
	}
	v, ok := b.values[key]
	return v, ok, nil
}

func (s *ItemStore) SetItem(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[scope]
	if !ok {
		b = &bucket{values: make(map[string]string)}
		s.buckets[scope] = b
	}
	b.values[key] = value
	b.touched = s.now()
	return nil
}

func (s *ItemStore) Touch(_ context.Context, scope string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[scope]; ok && at.After(b.touched) {
		b.touched = at
	}
	return nil
}

func (s *ItemStore) PurgeIdle(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for scope, b := range s.buckets {
		if b.touched.Before(cutoff) {
			removed += len(b.values)
			delete(s.buckets, scope)
		}
	}
	return removed, nil
}

var _ ports.ItemStore = (*ItemStore)(nil)
