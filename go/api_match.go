package dogfinderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dog-finder/internal/domains/dogs/adapters/http/mapper"
)

// MatchAPI exposes the session's match workflow.
type MatchAPI struct {
	errs *ErrorResponder
}

// NewMatchAPI creates a MatchAPI.
func NewMatchAPI(errs *ErrorResponder) MatchAPI {
	return MatchAPI{errs: errs}
}

// MatchView holds the match being presented, if any.
type MatchView struct {
	Match *mapper.Dog `json:"match"`
}

// Post /v1/match
// Generates a match from the favorites
func (api *MatchAPI) Run(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	dog, err := ws.Match.Run(ctx, ws.UserKey())
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	favorite, err := ws.Favorites.IsFavorite(ctx, ws.UserKey(), dog.ID)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	view := mapper.FromDomainDog(*dog, favorite)
	c.JSON(http.StatusOK, MatchView{Match: &view})
}

// Get /v1/match
// Returns the match being presented
func (api *MatchAPI) Current(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	dog := ws.Match.Current()
	if dog == nil {
		c.JSON(http.StatusOK, MatchView{})
		return
	}
	favorite, err := ws.Favorites.IsFavorite(c.Request.Context(), ws.UserKey(), dog.ID)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	view := mapper.FromDomainDog(*dog, favorite)
	c.JSON(http.StatusOK, MatchView{Match: &view})
}

// Delete /v1/match
// Dismisses the presented match
func (api *MatchAPI) Dismiss(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	ws.Match.Dismiss()
	c.Status(http.StatusNoContent)
}
