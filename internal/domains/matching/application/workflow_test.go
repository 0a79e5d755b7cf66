package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/dog-finder/internal/domains/dogs/ports"
)

type fakeCatalog struct {
	match func(ctx context.Context, favorites []string) (*domain.Match, error)
	dogs  func(ctx context.Context, ids []string) ([]domain.Dog, error)

	matchCalls int
	dogsCalls  int
}

func (f *fakeCatalog) Breeds(context.Context) ([]string, error) { return nil, nil }

func (f *fakeCatalog) Search(context.Context, domain.SearchQuery) (*domain.PageResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeCatalog) SearchAt(context.Context, domain.Cursor, domain.SearchFilters) (*domain.PageResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeCatalog) Dogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	f.dogsCalls++
	if f.dogs == nil {
		return nil, nil
	}
	return f.dogs(ctx, ids)
}

func (f *fakeCatalog) Match(ctx context.Context, favorites []string) (*domain.Match, error) {
	f.matchCalls++
	if f.match == nil {
		return nil, nil
	}
	return f.match(ctx, favorites)
}

type staticFavorites map[string][]string

func (s staticFavorites) List(_ context.Context, userKey string) ([]string, error) {
	if ids, ok := s[userKey]; ok {
		return ids, nil
	}
	return []string{}, nil
}

const user = "ada@example.com"

var rex = domain.Dog{ID: "d1", Name: "Rex", Breed: "Boxer", Age: 3, ImageURL: "https://img/rex.jpg", ZipCode: "10001"}

func TestRun_PresentsMatchedDog(t *testing.T) {
	catalog := &fakeCatalog{
		match: func(_ context.Context, favorites []string) (*domain.Match, error) {
			assert.Equal(t, []string{"d1", "d2"}, favorites)
			return &domain.Match{DogID: "d1"}, nil
		},
		dogs: func(_ context.Context, ids []string) ([]domain.Dog, error) {
			assert.Equal(t, []string{"d1"}, ids)
			return []domain.Dog{rex}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1", "d2"}})

	dog, err := wf.Run(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, rex, *dog)
	require.NotNil(t, wf.Current())
	assert.Equal(t, "Rex", wf.Current().Name)

	wf.Dismiss()
	assert.Nil(t, wf.Current())
}

func TestRun_PreconditionsMakeNoNetworkCalls(t *testing.T) {
	cases := map[string]struct {
		user string
		want error
	}{
		"not logged in": {user: "  ", want: ErrNotLoggedIn},
		"no favorites":  {user: "grace@example.com", want: ErrNoFavorites},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

			dog, err := wf.Run(context.Background(), tc.user)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, dog)
			assert.Zero(t, catalog.matchCalls)
			assert.Zero(t, catalog.dogsCalls)
		})
	}
}

func TestRun_NoMatchSkipsDetailLookup(t *testing.T) {
	var logs bytes.Buffer
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			return &domain.Match{}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	_, err := wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, catalog.dogsCalls)
	assert.Contains(t, logs.String(), "level=INFO")
	assert.Nil(t, wf.Current())
}

func TestRun_NoMatchDetails(t *testing.T) {
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			return &domain.Match{DogID: "gone"}, nil
		},
		dogs: func(context.Context, []string) ([]domain.Dog, error) {
			return []domain.Dog{}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

	_, err := wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ErrNoMatchDetails)
	assert.Nil(t, wf.Current())
}

func TestRun_TransportFailureIsNotRetried(t *testing.T) {
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			return nil, fmt.Errorf("%w: connection reset", ports.ErrUnavailable)
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

	_, err := wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ErrMatchFailed)
	require.ErrorIs(t, err, ports.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, 1, catalog.matchCalls)
	assert.Zero(t, catalog.dogsCalls)
}

func TestRun_SessionExpiryPassesThrough(t *testing.T) {
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			return &domain.Match{DogID: "d1"}, nil
		},
		dogs: func(context.Context, []string) ([]domain.Dog, error) {
			return nil, fmt.Errorf("%w: 401", ports.ErrSessionExpired)
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

	_, err := wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ports.ErrSessionExpired)
	assert.NotErrorIs(t, err, ErrMatchFailed)
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			close(started)
			<-release
			return &domain.Match{DogID: "d1"}, nil
		},
		dogs: func(context.Context, []string) ([]domain.Dog, error) {
			return []domain.Dog{rex}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

	done := make(chan error, 1)
	go func() {
		_, err := wf.Run(context.Background(), user)
		done <- err
	}()
	<-started

	_, err := wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "Rex", wf.Current().Name)
}

func TestRun_NewRunReplacesCurrentMatch(t *testing.T) {
	next := "d1"
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			return &domain.Match{DogID: next}, nil
		},
		dogs: func(_ context.Context, ids []string) ([]domain.Dog, error) {
			return []domain.Dog{{ID: ids[0], Name: "dog-" + ids[0]}}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1", "d2"}})

	_, err := wf.Run(context.Background(), user)
	require.NoError(t, err)
	next = "d2"
	_, err = wf.Run(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "d2", wf.Current().ID)
}

func TestRun_FailedRunClearsPreviousMatch(t *testing.T) {
	next := "d1"
	catalog := &fakeCatalog{
		match: func(context.Context, []string) (*domain.Match, error) {
			if next == "" {
				return nil, fmt.Errorf("%w: connection reset", ports.ErrUnavailable)
			}
			return &domain.Match{DogID: next}, nil
		},
		dogs: func(context.Context, []string) ([]domain.Dog, error) {
			return []domain.Dog{rex}, nil
		},
	}
	wf := NewWorkflow(catalog, staticFavorites{user: {"d1"}})

	_, err := wf.Run(context.Background(), user)
	require.NoError(t, err)
	require.NotNil(t, wf.Current())

	next = ""
	_, err = wf.Run(context.Background(), user)
	require.ErrorIs(t, err, ErrMatchFailed)
	assert.Nil(t, wf.Current())
}
