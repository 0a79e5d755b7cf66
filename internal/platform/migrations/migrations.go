package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the portal session tables. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&sessionRecord{},
		&storageItemRecord{},
	)
}

// Session schema mirrors the sessions Postgres adapter.
type sessionRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:64"`
	BrowserID       string    `gorm:"column:browser_id;size:64;index"`
	Name            string    `gorm:"column:name"`
	Email           string    `gorm:"column:email;index"`
	UpstreamCookies string    `gorm:"column:upstream_cookies;type:text"`
	ExpiresAt       time.Time `gorm:"column:expires_at;index"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "portal_sessions" }

// Storage item schema mirrors the browser storage Postgres adapter.
type storageItemRecord struct {
	Scope     string    `gorm:"primaryKey;column:scope;size:64"`
	Key       string    `gorm:"primaryKey;column:item_key;size:320"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (storageItemRecord) TableName() string { return "portal_storage_items" }
