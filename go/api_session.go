package dogfinderserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
	"github.com/Apurer/dog-finder/internal/domains/sessions/domain"
)

// SessionService is the portal session use cases the HTTP layer needs.
type SessionService interface {
	Login(ctx context.Context, browserID, name, email string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Workspace(ctx context.Context, sessionID string) (*sessionapp.Workspace, error)
}

// SessionAPI wires HTTP transport with the sessions bounded context.
type SessionAPI struct {
	sessions SessionService
	cookie   SessionCookie
	errs     *ErrorResponder
}

// NewSessionAPI creates a SessionAPI backed by the provided service.
func NewSessionAPI(sessions SessionService, cookie SessionCookie, errs *ErrorResponder) SessionAPI {
	return SessionAPI{sessions: sessions, cookie: cookie, errs: errs}
}

// Post /v1/session/login
// Logs in against the dog service and opens a portal session
func (api *SessionAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.errs.BadRequest(c, err)
		return
	}
	session, err := api.sessions.Login(c.Request.Context(), api.cookie.BrowserID(c), payload.Name, payload.Email)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	api.cookie.Set(c, session.ID)
	c.JSON(http.StatusOK, toSession(*session))
}

// Post /v1/session/logout
// Ends the session upstream and drops the login; favorites stay with the browser
func (api *SessionAPI) Logout(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	if err := api.sessions.Logout(c.Request.Context(), ws.Session.ID); err != nil {
		api.errs.Respond(c, err)
		return
	}
	api.cookie.Clear(c)
	c.Status(http.StatusNoContent)
}

// Get /v1/session
// Returns the logged-in user
func (api *SessionAPI) Current(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSession(ws.Session))
}
