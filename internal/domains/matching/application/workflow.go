package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

// FavoritesLister is the slice of the favorites store the workflow reads.
type FavoritesLister interface {
	List(ctx context.Context, userKey string) ([]string, error)
}

// Workflow turns a user's favorites into one recommended dog. Steps run
// strictly in order; the first failing step ends the run and nothing is
// retried.
type Workflow struct {
	catalog   ports.Catalog
	favorites FavoritesLister
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	current *domain.Dog
}

type Option func(*Workflow)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// NewWorkflow wires the workflow with its collaborators.
func NewWorkflow(catalog ports.Catalog, favorites FavoritesLister, opts ...Option) *Workflow {
	w := &Workflow{catalog: catalog, favorites: favorites}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w
}

// Run executes the workflow for userKey. On success the dog becomes the
// current match until Dismiss.
func (w *Workflow) Run(ctx context.Context, userKey string) (*domain.Dog, error) {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		return nil, ErrNotLoggedIn
	}
	favorites, err := w.favorites.List(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if len(favorites) == 0 {
		w.logger.LogAttrs(ctx, slog.LevelInfo, "match skipped, favorites empty")
		return nil, ErrNoFavorites
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.running = true
	w.current = nil
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	match, err := w.catalog.Match(ctx, favorites)
	if err != nil {
		return nil, wrapFailure(err)
	}
	if match == nil || strings.TrimSpace(match.DogID) == "" {
		w.logger.LogAttrs(ctx, slog.LevelInfo, "no match found", slog.Int("favorites", len(favorites)))
		return nil, ErrNoMatch
	}

	records, err := w.catalog.Dogs(ctx, []string{match.DogID})
	if err != nil {
		return nil, wrapFailure(err)
	}
	matched, _ := domain.OrderByIDs([]string{match.DogID}, records)
	if len(matched) == 0 {
		w.logger.LogAttrs(ctx, slog.LevelInfo, "no match details found", slog.String("dog.id", match.DogID))
		return nil, ErrNoMatchDetails
	}
	dog := matched[0]

	w.mu.Lock()
	w.current = &dog
	w.mu.Unlock()
	w.logger.LogAttrs(ctx, slog.LevelInfo, "match generated", slog.String("dog.id", dog.ID))
	out := dog
	return &out, nil
}

// Current returns the match being presented, or nil.
func (w *Workflow) Current() *domain.Dog {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	dog := *w.current
	return &dog
}

// Dismiss clears the current match. Past matches are not kept.
func (w *Workflow) Dismiss() {
	w.mu.Lock()
	w.current = nil
	w.mu.Unlock()
}

// wrapFailure keeps session expiry visible to callers while tagging transport
// failures as ErrMatchFailed.
func wrapFailure(err error) error {
	if errors.Is(err, ports.ErrSessionExpired) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMatchFailed, err)
}
