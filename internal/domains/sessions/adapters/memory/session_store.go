package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// SessionStore is an in-memory Repository implementation.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return domain.ErrIDRequired
	}
	s.sessions.Store(session.ID, session.Clone())
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	session := v.(domain.Session).Clone()
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) ([]string, error) {
	var purged []string
	s.sessions.Range(func(key, value any) bool {
		if value.(domain.Session).Expired(now) {
			s.sessions.Delete(key)
			purged = append(purged, key.(string))
		}
		return true
	})
	return purged, nil
}

var _ ports.Repository = (*SessionStore)(nil)
