package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// ItemStore persists browser-scoped storage values in PostgreSQL.
type ItemStore struct {
	db *gorm.DB
}

// NewItemStore wires a PostgreSQL-backed item store. Caller owns DB lifecycle.
func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

type itemRecord struct {
	Scope     string    `gorm:"primaryKey;column:scope;size:64"`
	Key       string    `gorm:"primaryKey;column:item_key;size:320"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (itemRecord) TableName() string { return "portal_storage_items" }

func (s *ItemStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	if err := s.ensureDB(); err != nil {
		return "", false, err
	}
	var rec itemRecord
	err := s.db.WithContext(ctx).First(&rec, "scope = ? AND item_key = ?", scope, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (s *ItemStore) SetItem(ctx context.Context, scope, key, value string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	rec := itemRecord{Scope: scope, Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *ItemStore) Touch(ctx context.Context, scope string, at time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&itemRecord{}).
		Where("scope = ? AND updated_at < ?", scope, at).
		Update("updated_at", at).Error
}

// PurgeIdle removes whole scopes whose newest value predates cutoff.
func (s *ItemStore) PurgeIdle(ctx context.Context, cutoff time.Time) (int, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	db := s.db.WithContext(ctx)
	idle := db.Model(&itemRecord{}).
		Select("scope").
		Group("scope").
		Having("MAX(updated_at) < ?", cutoff)
	res := db.Where("scope IN (?)", idle).Delete(&itemRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (s *ItemStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres item store not configured")
	}
	return nil
}

var _ ports.ItemStore = (*ItemStore)(nil)
