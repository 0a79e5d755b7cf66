package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCatalog serves pages from funcs and records every call.
type fakeCatalog struct {
	mu       sync.Mutex
	searches []domain.SearchQuery
	cursors  []domain.Cursor
	filters  []domain.SearchFilters
	lookups  [][]string

	search   func(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error)
	searchAt func(ctx context.Context, cursor domain.Cursor) (*domain.PageResult, error)
	dogs     func(ctx context.Context, ids []string) ([]domain.Dog, error)
}

func (f *fakeCatalog) Breeds(context.Context) ([]string, error) { return nil, nil }

func (f *fakeCatalog) Search(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	fn := f.search
	f.mu.Unlock()
	if fn == nil {
		return &domain.PageResult{IDs: []string{"d1", "d2"}, Next: "/dogs/search?from=12"}, nil
	}
	return fn(ctx, q)
}

func (f *fakeCatalog) SearchAt(ctx context.Context, cursor domain.Cursor, filters domain.SearchFilters) (*domain.PageResult, error) {
	f.mu.Lock()
	f.cursors = append(f.cursors, cursor)
	f.filters = append(f.filters, filters)
	fn := f.searchAt
	f.mu.Unlock()
	if fn == nil {
		return &domain.PageResult{IDs: []string{"d3"}, Prev: "/dogs/search?from=0"}, nil
	}
	return fn(ctx, cursor)
}

func (f *fakeCatalog) Dogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, ids)
	fn := f.dogs
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, ids)
	}
	out := make([]domain.Dog, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, domain.Dog{ID: ids[i], Name: "dog-" + ids[i]})
	}
	return out, nil
}

func (f *fakeCatalog) Match(context.Context, []string) (*domain.Match, error) { return nil, nil }

func (f *fakeCatalog) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeCatalog) lastSearch() domain.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches[len(f.searches)-1]
}

func (f *fakeCatalog) cursorCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cursors)
}

var _ ports.Catalog = (*fakeCatalog)(nil)

func intPtr(v int) *int { return &v }

func TestLoad_FetchesFirstPageOnce(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)

	snap, err := ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"d1", "d2"}, snap.PageIDs)
	require.Len(t, snap.Dogs, 2)
	assert.Equal(t, "d1", snap.Dogs[0].ID, "details are re-joined in result order")
	assert.Equal(t, domain.DefaultSort, catalog.lastSearch().Sort)
	assert.Equal(t, DefaultPageSize, catalog.lastSearch().Size)
	assert.Equal(t, 1, catalog.lastSearch().Page)

	_, err = ctrl.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.searchCount())
}

func TestApplyFilters_ResetsCursorsBeforeFetching(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog, WithPageSize(25))
	_, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)
	_, err = ctrl.NextPage(context.Background())
	require.NoError(t, err)
	require.True(t, ctrl.Snapshot().HasPrev())

	var observed Snapshot
	catalog.search = func(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
		observed = ctrl.Snapshot()
		return &domain.PageResult{IDs: []string{"d9"}}, nil
	}
	snap, err := ctrl.ApplyFilters(context.Background(), domain.SearchFilters{Breeds: []string{"Akita"}})
	require.NoError(t, err)

	assert.False(t, observed.HasNext(), "next cursor must be cleared before the fetch")
	assert.False(t, observed.HasPrev(), "prev cursor must be cleared before the fetch")
	assert.True(t, observed.Loading)
	assert.Equal(t, 1, catalog.lastSearch().Page)
	assert.Equal(t, 25, catalog.lastSearch().Size)
	assert.Equal(t, []string{"Akita"}, catalog.lastSearch().Filters.Breeds)
	assert.Equal(t, []string{"d9"}, snap.PageIDs)
}

func TestApplyFilters_RejectsInvalidRange(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)

	_, err := ctrl.ApplyFilters(context.Background(), domain.SearchFilters{AgeMin: intPtr(9), AgeMax: intPtr(2)})
	require.ErrorIs(t, err, ErrInvalidFilters)
	assert.Zero(t, catalog.searchCount())
}

func TestNextPrev_NoOpWithoutCursor(t *testing.T) {
	catalog := &fakeCatalog{search: func(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
		return &domain.PageResult{IDs: []string{"d1"}}, nil
	}}
	ctrl := NewController(catalog)
	before, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	next, err := ctrl.NextPage(context.Background())
	require.NoError(t, err)
	prev, err := ctrl.PrevPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, before, next)
	assert.Equal(t, before, prev)
	assert.Zero(t, catalog.cursorCount())
	assert.Equal(t, 1, catalog.searchCount())
}

func TestNextPage_FollowsCursorWithCurrentFilters(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	_, err := ctrl.ApplyFilters(context.Background(), domain.SearchFilters{ZipCodes: []string{"10001"}})
	require.NoError(t, err)

	snap, err := ctrl.NextPage(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, catalog.cursorCount())
	assert.Equal(t, domain.Cursor("/dogs/search?from=12"), catalog.cursors[0])
	assert.Equal(t, []string{"10001"}, catalog.filters[0].ZipCodes)
	assert.Equal(t, []string{"d3"}, snap.PageIDs)
	assert.False(t, snap.HasNext(), "cursors are replaced from the response")
	assert.Equal(t, domain.Cursor("/dogs/search?from=0"), snap.Prev)

	back, err := ctrl.PrevPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.cursorCount())
	assert.Equal(t, []string{"d3"}, back.PageIDs)
}

func TestToggleSort_SameFieldFlipsDirectionKeepingFilters(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	filters := domain.SearchFilters{Breeds: []string{"Akita"}, AgeMax: intPtr(5)}
	_, err := ctrl.ApplyFilters(context.Background(), filters)
	require.NoError(t, err)

	_, err = ctrl.ToggleSort(context.Background(), domain.SortByAge)
	require.NoError(t, err)
	assert.Equal(t, "age:asc", catalog.lastSearch().Sort.String())

	snap, err := ctrl.ToggleSort(context.Background(), domain.SortByAge)
	require.NoError(t, err)
	assert.Equal(t, "age:desc", catalog.lastSearch().Sort.String())
	assert.Equal(t, filters, snap.Filters)
	assert.Equal(t, filters, catalog.lastSearch().Filters)
}

func TestToggleSort_DifferentFieldStartsAscending(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	_, err := ctrl.ToggleSort(context.Background(), domain.SortByName)
	require.NoError(t, err)
	_, err = ctrl.ToggleSort(context.Background(), domain.SortByName)
	require.NoError(t, err)
	snap, err := ctrl.ToggleSort(context.Background(), domain.SortByAge)
	require.NoError(t, err)
	assert.Equal(t, domain.Sort{Field: domain.SortByAge, Direction: domain.Ascending}, snap.Sort)
}

func TestToggleSort_BreedClearsBreedFilterAndResetsToFirstPage(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	_, err := ctrl.ToggleSort(context.Background(), domain.SortByName)
	require.NoError(t, err)
	_, err = ctrl.ApplyFilters(context.Background(), domain.SearchFilters{Breeds: []string{"Akita"}, ZipCodes: []string{"10001"}})
	require.NoError(t, err)
	_, err = ctrl.NextPage(context.Background())
	require.NoError(t, err)

	snap, err := ctrl.ToggleSort(context.Background(), domain.SortByBreed)
	require.NoError(t, err)

	assert.Empty(t, snap.Filters.Breeds)
	assert.Equal(t, []string{"10001"}, snap.Filters.ZipCodes)
	last := catalog.lastSearch()
	assert.Empty(t, last.Filters.Breeds)
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "breed:asc", last.Sort.String())
}

func TestToggleSort_UnknownField(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	_, err := ctrl.ToggleSort(context.Background(), domain.SortField("weight"))
	require.ErrorIs(t, err, domain.ErrInvalidField)
	assert.Zero(t, catalog.searchCount())
}

func TestFailure_KeepsLastGoodPage(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	good, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	boom := fmt.Errorf("%w: connection reset", ports.ErrUnavailable)
	catalog.search = func(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
		return nil, boom
	}
	snap, err := ctrl.Refresh(context.Background())
	require.ErrorIs(t, err, ports.ErrUnavailable)
	assert.False(t, snap.Loading)
	assert.Equal(t, good.PageIDs, snap.PageIDs)
	assert.Equal(t, good.Dogs, snap.Dogs)
	assert.NotEmpty(t, snap.LastError)
}

func TestDetailFailure_IsAtomic(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	good, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	catalog.search = func(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
		return &domain.PageResult{IDs: []string{"x1", "x2"}, Next: "/dogs/search?from=99"}, nil
	}
	catalog.dogs = func(context.Context, []string) ([]domain.Dog, error) {
		return nil, errors.New("details down")
	}
	snap, err := ctrl.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, good.PageIDs, snap.PageIDs, "ids from the failed search must not leak")
	assert.False(t, snap.HasNext(), "cursors from the failed search must not leak")

	catalog.dogs = func(_ context.Context, ids []string) ([]domain.Dog, error) {
		return []domain.Dog{{ID: ids[0]}}, nil
	}
	snap, err = ctrl.Refresh(context.Background())
	require.ErrorIs(t, err, ErrIncompletePage)
	assert.Equal(t, good.Dogs, snap.Dogs)
}

func TestEmptyPage_SkipsDetailLookup(t *testing.T) {
	catalog := &fakeCatalog{search: func(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
		return &domain.PageResult{}, nil
	}}
	ctrl := NewController(catalog)
	snap, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Dogs)
	assert.True(t, snap.Loaded)
	assert.Empty(t, catalog.lookups)
}

func TestNextPage_RejectedWhileLoading(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)
	_, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	catalog.search = func(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
		close(entered)
		<-release
		return &domain.PageResult{IDs: []string{"d1"}, Next: "/dogs/search?from=12"}, nil
	}
	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Refresh(context.Background())
		done <- err
	}()
	<-entered

	_, err = ctrl.NextPage(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	assert.Zero(t, catalog.cursorCount())

	close(release)
	require.NoError(t, <-done)
}

func TestStaleResponse_DoesNotOverwriteNewerPage(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	catalog.search = func(_ context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
		if len(q.Filters.Breeds) > 0 && q.Filters.Breeds[0] == "Akita" {
			close(firstEntered)
			<-releaseFirst
			return &domain.PageResult{IDs: []string{"stale"}, Next: "/dogs/search?stale"}, nil
		}
		return &domain.PageResult{IDs: []string{"fresh"}}, nil
	}

	firstDone := make(chan Snapshot, 1)
	go func() {
		snap, err := ctrl.ApplyFilters(context.Background(), domain.SearchFilters{Breeds: []string{"Akita"}})
		assert.NoError(t, err)
		firstDone <- snap
	}()
	<-firstEntered

	second, err := ctrl.ApplyFilters(context.Background(), domain.SearchFilters{Breeds: []string{"Beagle"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, second.PageIDs)
	assert.Equal(t, uint64(2), second.Seq)

	close(releaseFirst)
	stale := <-firstDone
	assert.Equal(t, []string{"fresh"}, stale.PageIDs)

	final := ctrl.Snapshot()
	assert.Equal(t, []string{"fresh"}, final.PageIDs)
	assert.Equal(t, []string{"Beagle"}, final.Filters.Breeds)
	assert.False(t, final.HasNext())
	assert.False(t, final.Loading)
	assert.Equal(t, uint64(2), final.Seq)
}

func TestSupersededRequest_KeepsLoadingUntilLatestCompletes(t *testing.T) {
	catalog := &fakeCatalog{}
	ctrl := NewController(catalog)

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	secondEntered := make(chan struct{})
	releaseSecond := make(chan struct{})
	catalog.search = func(_ context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
		if q.Sort.Field == domain.SortByName {
			close(secondEntered)
			<-releaseSecond
			return &domain.PageResult{IDs: []string{"second"}}, nil
		}
		close(firstEntered)
		<-releaseFirst
		return &domain.PageResult{IDs: []string{"first"}}, nil
	}

	firstDone := make(chan struct{})
	secondDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = ctrl.Refresh(context.Background())
	}()
	<-firstEntered
	go func() {
		defer close(secondDone)
		_, _ = ctrl.ToggleSort(context.Background(), domain.SortByName)
	}()
	<-secondEntered

	close(releaseFirst)
	<-firstDone
	assert.True(t, ctrl.Snapshot().Loading, "stale completion must not clear the loading flag")
	assert.False(t, ctrl.Snapshot().Loaded)

	close(releaseSecond)
	<-secondDone
	snap := ctrl.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"second"}, snap.PageIDs)
}
