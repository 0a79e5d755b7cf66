package dogfinderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dog-finder/internal/domains/dogs/adapters/http/mapper"
	dogdomain "github.com/Apurer/dog-finder/internal/domains/dogs/domain"
)

// FavoritesAPI exposes the session's favorites.
type FavoritesAPI struct {
	errs *ErrorResponder
}

// NewFavoritesAPI creates a FavoritesAPI.
func NewFavoritesAPI(errs *ErrorResponder) FavoritesAPI {
	return FavoritesAPI{errs: errs}
}

// FavoritesPage lists favorited dogs in the order they were added. Missing
// holds favorites the dog service no longer knows.
type FavoritesPage struct {
	Dogs    []mapper.Dog `json:"dogs"`
	Missing []string     `json:"missing"`
}

// FavoriteToggle reports the membership after a toggle.
type FavoriteToggle struct {
	DogID    string `json:"dogId"`
	Favorite bool   `json:"favorite"`
}

// Get /v1/favorites
// Resolves every favorite into a dog record
func (api *FavoritesAPI) List(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ids, err := ws.Favorites.List(ctx, ws.UserKey())
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	page := FavoritesPage{Dogs: []mapper.Dog{}, Missing: []string{}}
	if len(ids) == 0 {
		c.JSON(http.StatusOK, page)
		return
	}
	records, err := ws.Catalog.Dogs(ctx, ids)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	dogs, missing := dogdomain.OrderByIDs(ids, records)
	for _, dog := range dogs {
		page.Dogs = append(page.Dogs, mapper.FromDomainDog(dog, true))
	}
	if len(missing) > 0 {
		page.Missing = missing
	}
	c.JSON(http.StatusOK, page)
}

// Get /v1/favorites/ids
// Lists favorite ids in insertion order
func (api *FavoritesAPI) IDs(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	ids, err := ws.Favorites.List(c.Request.Context(), ws.UserKey())
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

// Post /v1/favorites/:dogId/toggle
// Adds the dog when absent, removes it when present
func (api *FavoritesAPI) Toggle(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	dogID := c.Param("dogId")
	on, err := ws.Favorites.Toggle(c.Request.Context(), ws.UserKey(), dogID)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, FavoriteToggle{DogID: dogID, Favorite: on})
}
