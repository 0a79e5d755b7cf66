package domain

import (
	"errors"
	"net/mail"
	"slices"
	"strings"
	"time"
)

var (
	ErrIDRequired   = errors.New("session id is required")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("email is invalid")
)

// Cookie is an upstream session cookie kept so a workspace can be rebuilt
// after a restart.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is one portal login. BrowserID names the browser session the login
// was made from; stored values such as favorites are scoped to it and outlive
// the login.
type Session struct {
	ID              string
	BrowserID       string
	Name            string
	Email           string
	UpstreamCookies []Cookie
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// NewSession validates the login input and stamps the lifetime.
func NewSession(id, name, email string, now time.Time, ttl time.Duration) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	return &Session{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// UserKey is the key favorites are stored under.
func (s Session) UserKey() string {
	return strings.TrimSpace(s.Email)
}

// StorageScope is the bucket the session's stored values live in. Logins
// without a browser id get a bucket of their own.
func (s Session) StorageScope() string {
	if scope := strings.TrimSpace(s.BrowserID); scope != "" {
		return scope
	}
	return s.ID
}

// Expired reports whether the session lifetime ended at or before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	s.UpstreamCookies = slices.Clone(s.UpstreamCookies)
	return s
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
