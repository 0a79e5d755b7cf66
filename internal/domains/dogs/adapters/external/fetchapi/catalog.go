package fetchapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

// maxParallelLookups bounds concurrent POST /dogs calls for one resolution.
const maxParallelLookups = 4

// Catalog implements the dog catalog port over the Fetch HTTP client.
type Catalog struct {
	client *fetchclient.Client
}

// NewCatalog wires a Fetch client into the catalog port.
func NewCatalog(client *fetchclient.Client) *Catalog {
	return &Catalog{client: client}
}

// Breeds lists all breed names.
func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	breeds, err := c.client.Breeds(ctx)
	if err != nil {
		return nil, MapError(err)
	}
	return breeds, nil
}

// Search fetches the page described by query.
func (c *Catalog) Search(ctx context.Context, query domain.SearchQuery) (*domain.PageResult, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	resp, err := c.client.Search(ctx, ToSearchParams(query))
	if err != nil {
		return nil, MapError(err)
	}
	return ToPageResult(resp), nil
}

// SearchAt follows an opaque cursor with the current filters attached.
func (c *Catalog) SearchAt(ctx context.Context, cursor domain.Cursor, filters domain.SearchFilters) (*domain.PageResult, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	if cursor.IsZero() {
		return nil, errors.New("cursor is required")
	}
	resp, err := c.client.SearchCursor(ctx, string(cursor), FilterParams(filters))
	if err != nil {
		return nil, MapError(err)
	}
	return ToPageResult(resp), nil
}

// Dogs resolves ids into records, splitting the lookup into upstream-sized
// chunks fetched in parallel. Any failed chunk fails the whole call.
func (c *Catalog) Dogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	ids = domain.NormalizeIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	chunks := chunk(ids, fetchclient.MaxDogsPerLookup)
	results := make([][]fetchclient.Dog, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, part := range chunks {
		g.Go(func() error {
			dogs, err := c.client.Dogs(gctx, part)
			if err != nil {
				return err
			}
			results[i] = dogs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, MapError(err)
	}

	out := make([]domain.Dog, 0, len(ids))
	for _, part := range results {
		for _, d := range part {
			dog := ToDomainDog(d)
			if err := dog.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
			}
			out = append(out, dog)
		}
	}
	return out, nil
}

// Match asks the upstream to pick one of favorites. An empty identifier is
// returned as a zero Match, not an error.
func (c *Catalog) Match(ctx context.Context, favorites []string) (*domain.Match, error) {
	if err := c.ensureClient(); err != nil {
		return nil, err
	}
	resp, err := c.client.Match(ctx, favorites)
	if err != nil {
		return nil, MapError(err)
	}
	return &domain.Match{DogID: strings.TrimSpace(resp.Match)}, nil
}

func (c *Catalog) ensureClient() error {
	if c == nil || c.client == nil {
		return errors.New("dog catalog not configured")
	}
	return nil
}

// MapError translates client errors into the catalog port's sentinels.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fetchclient.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ports.ErrSessionExpired, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ports.ErrUnavailable, err)
	}
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

var _ ports.Catalog = (*Catalog)(nil)
