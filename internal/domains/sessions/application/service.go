package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	dogports "github.com/Apurer/dog-finder/internal/domains/dogs/ports"
	favapp "github.com/Apurer/dog-finder/internal/domains/favorites/application"
	matchapp "github.com/Apurer/dog-finder/internal/domains/matching/application"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service manages portal sessions and their live workspaces.
type Service struct {
	repo      ports.Repository
	items     ports.ItemStore
	connector ports.Connector
	logger    *slog.Logger
	ttl       time.Duration
	pageSize  int
	now       func() time.Time
	newID     func() string

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

type Option func(*Service)

// WithLogger injects a slog logger, shared with every workspace component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPageSize sets the search page size of new workspaces.
func WithPageSize(size int) Option {
	return func(s *Service) {
		s.pageSize = size
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the session service.
func NewService(repo ports.Repository, items ports.ItemStore, connector ports.Connector, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		items:      items,
		connector:  connector,
		ttl:        DefaultSessionTTL,
		now:        time.Now,
		newID:      uuid.NewString,
		workspaces: make(map[string]*Workspace),
	}
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

// Login authenticates against the dog service and opens a portal session
// for the browser session browserID. Nothing is persisted when the upstream
// login fails. Values stored for browserID by earlier logins stay visible.
func (s *Service) Login(ctx context.Context, browserID, name, email string) (*domain.Session, error) {
	now := s.now()
	session, err := domain.NewSession(s.newID(), name, email, now, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLogin, err)
	}
	session.BrowserID = strings.TrimSpace(browserID)

	// No session exists yet, so a 401 here must not expire anything.
	login, err := s.connector.Connect(nil, nil)
	if err != nil {
		return nil, err
	}
	if err := login.Login(ctx, session.Name, session.Email); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "upstream login failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	session.UpstreamCookies = login.Cookies()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	conn, err := s.connector.Connect(session.UpstreamCookies, s.expiryHook(session.ID))
	if err != nil {
		_ = s.repo.Delete(ctx, session.ID)
		return nil, err
	}
	if err := s.items.Touch(ctx, session.StorageScope(), now); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to refresh browser storage",
			slog.String("session.id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	s.workspaces[session.ID] = s.newWorkspace(*session, conn)
	s.mu.Unlock()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "session opened", slog.String("session.id", session.ID))
	out := session.Clone()
	return &out, nil
}

// Logout ends the upstream session, then drops the portal session and its
// workspace. Browser-scoped storage is kept. When the upstream call fails
// local state is kept too.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	ws, err := s.Workspace(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := ws.conn.Logout(ctx); err != nil {
		if errors.Is(err, dogports.ErrSessionExpired) {
			// The 401 hook has already dropped the session.
			return nil
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "upstream logout failed",
			slog.String("session.id", sessionID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if err := s.drop(ctx, sessionID); err != nil {
		return err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session closed", slog.String("session.id", sessionID))
	return nil
}

// Workspace returns the live workspace of a session, rebuilding it from the
// persisted session when this process has not served it yet.
func (s *Service) Workspace(ctx context.Context, sessionID string) (*Workspace, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	ws, ok := s.workspaces[sessionID]
	s.mu.Unlock()
	if ok {
		if ws.Session.Expired(s.now()) {
			return nil, s.expireWith(ctx, sessionID, "session lifetime ended")
		}
		return ws, nil
	}

	session, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, s.expireWith(ctx, sessionID, "session lifetime ended")
	}
	conn, err := s.connector.Connect(session.UpstreamCookies, s.expiryHook(session.ID))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.workspaces[sessionID]; ok {
		return existing, nil
	}
	ws = s.newWorkspace(*session, conn)
	s.workspaces[sessionID] = ws
	s.logger.LogAttrs(ctx, slog.LevelDebug, "workspace restored", slog.String("session.id", sessionID))
	return ws, nil
}

// Expire drops a session whose upstream credentials were rejected.
func (s *Service) Expire(ctx context.Context, sessionID string) {
	if err := s.drop(ctx, sessionID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to drop expired session",
			slog.String("session.id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "session expired", slog.String("session.id", sessionID))
}

// PurgeExpired removes sessions past their lifetime with their workspaces,
// and browser storage left idle for a whole session lifetime. It returns the
// number of sessions removed.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.repo.PurgeExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	for _, id := range ids {
		s.forget(id)
	}
	values, err := s.items.PurgeIdle(ctx, now.Add(-s.ttl))
	if err != nil {
		err = fmt.Errorf("purge browser storage: %w", err)
	}
	if len(ids) > 0 || values > 0 {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "purged expired sessions",
			slog.Int("count", len(ids)),
			slog.Int("storage.values", values),
		)
	}
	return len(ids), err
}

func (s *Service) expireWith(ctx context.Context, sessionID, reason string) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, reason, slog.String("session.id", sessionID))
	s.Expire(ctx, sessionID)
	return dogports.ErrSessionExpired
}

func (s *Service) expiryHook(sessionID string) func(ctx context.Context) {
	return func(ctx context.Context) {
		s.Expire(ctx, sessionID)
	}
}

func (s *Service) drop(ctx context.Context, sessionID string) error {
	s.forget(sessionID)
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) forget(sessionID string) {
	s.mu.Lock()
	delete(s.workspaces, sessionID)
	s.mu.Unlock()
}

func (s *Service) newWorkspace(session domain.Session, conn ports.Connection) *Workspace {
	catalog := conn.Catalog()
	favorites := favapp.NewStore(
		scopedStorage{scope: session.StorageScope(), items: s.items},
		favapp.WithLogger(s.logger),
	)
	return &Workspace{
		Session: session.Clone(),
		Catalog: catalog,
		Search: searchapp.NewController(catalog,
			searchapp.WithLogger(s.logger),
			searchapp.WithPageSize(s.pageSize),
		),
		Favorites: favorites,
		Match:     matchapp.NewWorkflow(catalog, favorites, matchapp.WithLogger(s.logger)),
		conn:      conn,
	}
}
