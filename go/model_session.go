package dogfinderserver

import (
	"time"

	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
)

// LoginRequest is the login form payload.
type LoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// Session is the public view of a portal session.
type Session struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toSession(s domain.Session) Session {
	return Session{Name: s.Name, Email: s.Email, ExpiresAt: s.ExpiresAt}
}
