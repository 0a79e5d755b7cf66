package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

// DefaultPageSize is the number of dogs per page.
const DefaultPageSize = 12

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Filters   domain.SearchFilters
	Sort      domain.Sort
	PageSize  int
	Next      domain.Cursor
	Prev      domain.Cursor
	PageIDs   []string
	Dogs      []domain.Dog
	Total     int
	Loading   bool
	Loaded    bool
	LastError string
	// Seq is the sequence number of the request that produced the page.
	Seq uint64
}

// HasNext reports whether a forward cursor is held.
func (s Snapshot) HasNext() bool { return !s.Next.IsZero() }

// HasPrev reports whether a backward cursor is held.
func (s Snapshot) HasPrev() bool { return !s.Prev.IsZero() }

// request is one fetch, tagged with the sequence number it was issued under.
// A first-page request carries a query; a cursor request carries the cursor
// and the filters active when it was issued.
type request struct {
	seq     uint64
	query   domain.SearchQuery
	cursor  domain.Cursor
	filters domain.SearchFilters
}

type state struct {
	filters domain.SearchFilters
	sort    domain.Sort
	next    domain.Cursor
	prev    domain.Cursor
	ids     []string
	dogs    []domain.Dog
	total   int
	loading bool
	loaded  bool
	lastErr string
	applied uint64
}

// Controller owns the filter, sort, and pagination state of one catalog view
// and keeps its cursors consistent with the active filters.
//
// Every fetch is a request tagged with a monotonic sequence number. Filter and
// sort changes supersede whatever is in flight; pagination is rejected while a
// fetch is in flight. A completion whose sequence number is not the latest
// issued is discarded.
type Controller struct {
	catalog  ports.Catalog
	logger   *slog.Logger
	pageSize int

	mu     sync.Mutex
	issued uint64
	state  state
}

type Option func(*Controller)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPageSize overrides DefaultPageSize.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// NewController builds a controller with no filters and the default sort.
func NewController(catalog ports.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:  catalog,
		pageSize: DefaultPageSize,
		state:    state{sort: domain.DefaultSort},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Snapshot returns the current state without fetching.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load returns the current state, fetching the first page when nothing has
// been loaded or requested yet.
func (c *Controller) Load(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.state.loaded || c.state.loading {
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}
	req := c.firstPageLocked()
	c.mu.Unlock()
	return c.execute(ctx, req)
}

// Refresh re-fetches the first page under the current filters and sort.
func (c *Controller) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	req := c.firstPageLocked()
	c.mu.Unlock()
	return c.execute(ctx, req)
}

// ApplyFilters replaces the filters, drops both cursors, and fetches page 1.
// Cursors issued under the previous filters are never reused.
func (c *Controller) ApplyFilters(ctx context.Context, filters domain.SearchFilters) (Snapshot, error) {
	if err := filters.Validate(); err != nil {
		return c.Snapshot(), fmt.Errorf("%w: %w", ErrInvalidFilters, err)
	}
	c.mu.Lock()
	c.state.filters = filters.Clone()
	req := c.firstPageLocked()
	c.mu.Unlock()
	return c.execute(ctx, req)
}

// ToggleSort switches to field in ascending order, or flips the direction
// when field is already active. Any toggle to breed also clears the breed
// filter; this coupling is kept on purpose until product decides otherwise.
func (c *Controller) ToggleSort(ctx context.Context, field domain.SortField) (Snapshot, error) {
	field, err := domain.ParseSortField(string(field))
	if err != nil {
		return c.Snapshot(), err
	}
	c.mu.Lock()
	if c.state.sort.Field == field {
		c.state.sort.Direction = c.state.sort.Direction.Flip()
	} else {
		c.state.sort = domain.Sort{Field: field, Direction: domain.Ascending}
	}
	if field == domain.SortByBreed {
		c.state.filters = c.state.filters.WithoutBreeds()
	}
	req := c.firstPageLocked()
	c.mu.Unlock()
	return c.execute(ctx, req)
}

// NextPage follows the forward cursor. Without one it is a no-op.
func (c *Controller) NextPage(ctx context.Context) (Snapshot, error) {
	return c.follow(ctx, func(s *state) domain.Cursor { return s.next })
}

// PrevPage follows the backward cursor. Without one it is a no-op.
func (c *Controller) PrevPage(ctx context.Context) (Snapshot, error) {
	return c.follow(ctx, func(s *state) domain.Cursor { return s.prev })
}

func (c *Controller) follow(ctx context.Context, pick func(*state) domain.Cursor) (Snapshot, error) {
	c.mu.Lock()
	cursor := pick(&c.state)
	if cursor.IsZero() {
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}
	if c.state.loading {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrBusy
	}
	req := c.issueLocked()
	req.cursor = cursor
	req.filters = c.state.filters.Clone()
	c.mu.Unlock()
	return c.execute(ctx, req)
}

// firstPageLocked resets both cursors and issues a page-1 request.
func (c *Controller) firstPageLocked() request {
	c.state.next = ""
	c.state.prev = ""
	req := c.issueLocked()
	req.query = domain.SearchQuery{
		Filters: c.state.filters.Clone(),
		Size:    c.pageSize,
		Sort:    c.state.sort,
		Page:    1,
	}
	return req
}

func (c *Controller) issueLocked() request {
	c.issued++
	c.state.loading = true
	return request{seq: c.issued}
}

func (c *Controller) execute(ctx context.Context, req request) (Snapshot, error) {
	page, dogs, err := c.fetch(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if req.seq != c.issued {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "discarded stale search response",
			slog.Uint64("seq", req.seq),
			slog.Uint64("latest", c.issued),
		)
		return c.snapshotLocked(), nil
	}
	c.state.loading = false
	if err != nil {
		c.state.lastErr = err.Error()
		return c.snapshotLocked(), err
	}
	c.state.ids = page.IDs
	c.state.dogs = dogs
	c.state.total = page.Total
	c.state.next = page.Next
	c.state.prev = page.Prev
	c.state.loaded = true
	c.state.lastErr = ""
	c.state.applied = req.seq
	return c.snapshotLocked(), nil
}

// fetch runs the search call and then the detail call. The page is only
// returned once every id resolved.
func (c *Controller) fetch(ctx context.Context, req request) (*domain.PageResult, []domain.Dog, error) {
	var (
		page *domain.PageResult
		err  error
	)
	if req.cursor.IsZero() {
		page, err = c.catalog.Search(ctx, req.query)
	} else {
		page, err = c.catalog.SearchAt(ctx, req.cursor, req.filters)
	}
	if err != nil {
		return nil, nil, err
	}
	if page == nil {
		page = &domain.PageResult{}
	}
	if len(page.IDs) == 0 {
		return page, []domain.Dog{}, nil
	}
	records, err := c.catalog.Dogs(ctx, page.IDs)
	if err != nil {
		return nil, nil, err
	}
	dogs, missing := domain.OrderByIDs(page.IDs, records)
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %d of %d ids missing", ErrIncompletePage, len(missing), len(page.IDs))
	}
	return page, dogs, nil
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Filters:   c.state.filters.Clone(),
		Sort:      c.state.sort,
		PageSize:  c.pageSize,
		Next:      c.state.next,
		Prev:      c.state.prev,
		PageIDs:   slices.Clone(c.state.ids),
		Dogs:      slices.Clone(c.state.dogs),
		Total:     c.state.total,
		Loading:   c.state.loading,
		Loaded:    c.state.loaded,
		LastError: c.state.lastErr,
		Seq:       c.state.applied,
	}
}
