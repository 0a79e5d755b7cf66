package dogfinderserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
)

// SessionCookieName carries the portal session id.
const SessionCookieName = "dogfinder_session"

// BrowserCookieName carries the browser session id that stored favorites are
// scoped to. It has no Max-Age, so it ends with the browser session.
const BrowserCookieName = "dogfinder_browser"

const workspaceKey = "dogfinder.workspace"

// SessionCookie holds the portal cookie attributes.
type SessionCookie struct {
	Secure bool
	MaxAge time.Duration
}

// Set issues the session cookie.
func (s SessionCookie) Set(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, sessionID, int(s.MaxAge.Seconds()), "/", "", s.Secure, true)
}

// Clear expires the session cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.Secure, true)
}

// BrowserID returns the caller's browser session id, issuing a new one when
// the request carries none.
func (s SessionCookie) BrowserID(c *gin.Context) string {
	if id, err := c.Cookie(BrowserCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(BrowserCookieName, id, 0, "/", "", s.Secure, true)
	return id
}

// RequireSession resolves the caller's workspace from the session cookie.
func RequireSession(sessions SessionService, errs *ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || id == "" {
			errs.Respond(c, sessionapp.ErrNoSession)
			return
		}
		ws, err := sessions.Workspace(c.Request.Context(), id)
		if err != nil {
			errs.Respond(c, err)
			return
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func workspaceFrom(c *gin.Context) *sessionapp.Workspace {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*sessionapp.Workspace)
	return ws
}

// currentWorkspace returns the workspace set by RequireSession, answering 401
// when the route was mounted without it.
func currentWorkspace(c *gin.Context, errs *ErrorResponder) (*sessionapp.Workspace, bool) {
	ws := workspaceFrom(c)
	if ws == nil {
		errs.Respond(c, sessionapp.ErrNoSession)
		return nil, false
	}
	return ws, true
}
