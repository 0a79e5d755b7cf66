package ports

import (
	"context"

	dogports "github.com/Apurer/dog-finder/internal/domains/dogs/ports"
	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
)

// Connection is one authenticated channel to the dog service.
type Connection interface {
	Login(ctx context.Context, name, email string) error
	Logout(ctx context.Context) error
	Cookies() []domain.Cookie
	Catalog() dogports.Catalog
}

// Connector opens connections. onUnauthorized runs whenever any call made
// through the connection is answered with 401.
type Connector interface {
	Connect(cookies []domain.Cookie, onUnauthorized func(ctx context.Context)) (Connection, error)
}
