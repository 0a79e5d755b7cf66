package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Apurer/dog-finder/internal/domains/favorites/ports"
)

// Store keeps the favorited dog ids of each user as an insertion-ordered,
// duplicate-free list serialized into session storage under the user key.
type Store struct {
	storage ports.Storage
	logger  *slog.Logger
	mu      sync.Mutex
}

type Option func(*Store)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore wires the favorites store over session storage.
func NewStore(storage ports.Storage, opts ...Option) *Store {
	s := &Store{storage: storage}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// IsFavorite reports whether dogID is in the user's favorites.
func (s *Store) IsFavorite(ctx context.Context, userKey, dogID string) (bool, error) {
	ids, err := s.List(ctx, userKey)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, strings.TrimSpace(dogID)), nil
}

// Toggle adds dogID when absent and removes it when present. It returns the
// membership after the toggle.
func (s *Store) Toggle(ctx context.Context, userKey, dogID string) (bool, error) {
	key, err := normalizeKey(userKey)
	if err != nil {
		return false, err
	}
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return false, ErrInvalidDogID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	favorite := true
	if idx := slices.Index(ids, dogID); idx >= 0 {
		ids = slices.Delete(ids, idx, idx+1)
		favorite = false
	} else {
		ids = append(ids, dogID)
	}
	if err := s.save(ctx, key, ids); err != nil {
		return false, err
	}
	return favorite, nil
}

// List returns the user's favorites, first-favorited first. An unknown user
// key yields an empty list.
func (s *Store) List(ctx context.Context, userKey string) ([]string, error) {
	key, err := normalizeKey(userKey)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, key)
}

// Set returns the favorites as a membership set.
func (s *Store) Set(ctx context.Context, userKey string) (map[string]struct{}, error) {
	ids, err := s.List(ctx, userKey)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *Store) load(ctx context.Context, key string) ([]string, error) {
	raw, ok, err := s.storage.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if !ok {
		return []string{}, nil
	}
	ids, problem := decode(raw)
	if problem != "" {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "normalized malformed favorites value",
			slog.String("reason", problem),
		)
	}
	return ids, nil
}

func (s *Store) save(ctx context.Context, key string, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.storage.SetItem(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

// decode accepts a JSON array and keeps its unique non-blank string elements.
// Anything else becomes the empty list; the second value names what was wrong.
func decode(raw string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, ""
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}, "stored value is not a JSON array"
	}
	ids := make([]string, 0, len(items))
	problem := ""
	for _, item := range items {
		id, ok := item.(string)
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			problem = "dropped non-string or blank entries"
			continue
		}
		if slices.Contains(ids, id) {
			problem = "dropped duplicate entries"
			continue
		}
		ids = append(ids, id)
	}
	return ids, problem
}

func normalizeKey(userKey string) (string, error) {
	key := strings.TrimSpace(userKey)
	if key == "" {
		return "", ErrNoUser
	}
	return key, nil
}
