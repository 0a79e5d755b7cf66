package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s, err := NewSession("s1", "  Ada ", " ada@example.com ", now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.Name)
	assert.Equal(t, "ada@example.com", s.UserKey())
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	_, err = NewSession("s1", " ", "ada@example.com", now, time.Hour)
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = NewSession("s1", "Ada", "not-an-email", now, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewSession("s1", "Ada", "Ada <ada@example.com>", now, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewSession("", "Ada", "ada@example.com", now, time.Hour)
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}
	assert.True(t, s.Expired(now))
	assert.False(t, s.Expired(now.Add(-time.Second)))
	assert.False(t, Session{}.Expired(now))
}

func TestSession_StorageScope(t *testing.T) {
	assert.Equal(t, "browser-1", Session{ID: "s1", BrowserID: " browser-1 "}.StorageScope())
	assert.Equal(t, "s1", Session{ID: "s1"}.StorageScope())
}
