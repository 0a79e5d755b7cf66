package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// SessionStore persists portal sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	BrowserID       string          `gorm:"column:browser_id;size:64;index"`
	Name            string          `gorm:"column:name"`
	Email           string          `gorm:"column:email;index"`
	UpstreamCookies []domain.Cookie `gorm:"column:upstream_cookies;type:text;serializer:json"`
	ExpiresAt       time.Time       `gorm:"column:expires_at;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "portal_sessions" }

// Save upserts a session keyed by id.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return domain.ErrIDRequired
	}
	rec := toRecord(session)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"browser_id", "name", "email", "upstream_cookies", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomain(rec), nil
}

// Delete removes a session. Browser-scoped storage is left alone.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var ids []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sessionRecord{}).Where("expires_at <= ?", now).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Delete(&sessionRecord{}, "id IN ?", ids).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

func toRecord(session *domain.Session) sessionRecord {
	return sessionRecord{
		ID:              session.ID,
		BrowserID:       session.BrowserID,
		Name:            session.Name,
		Email:           session.Email,
		UpstreamCookies: session.UpstreamCookies,
		ExpiresAt:       session.ExpiresAt,
		CreatedAt:       session.CreatedAt,
	}
}

func toDomain(rec sessionRecord) *domain.Session {
	return &domain.Session{
		ID:              rec.ID,
		BrowserID:       rec.BrowserID,
		Name:            rec.Name,
		Email:           rec.Email,
		UpstreamCookies: rec.UpstreamCookies,
		CreatedAt:       rec.CreatedAt,
		ExpiresAt:       rec.ExpiresAt,
	}
}

var _ ports.Repository = (*SessionStore)(nil)
