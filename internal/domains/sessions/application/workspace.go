package application

import (
	dogports "github.com/Apurer/dog-finder/internal/domains/dogs/ports"
	favapp "github.com/Apurer/dog-finder/internal/domains/favorites/application"
	matchapp "github.com/Apurer/dog-finder/internal/domains/matching/application"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
	"github.com/Apurer/dog-finder/internal/domains/sessions/ports"
)

// Workspace bundles the per-session state the portal serves.
type Workspace struct {
	Session   domain.Session
	Catalog   dogports.Catalog
	Search    *searchapp.Controller
	Favorites *favapp.Store
	Match     *matchapp.Workflow

	conn ports.Connection
}

// UserKey is the key the session's favorites live under.
func (w *Workspace) UserKey() string {
	return w.Session.UserKey()
}
