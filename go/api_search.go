package dogfinderserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dog-finder/internal/domains/dogs/adapters/http/mapper"
	dogdomain "github.com/Apurer/dog-finder/internal/domains/dogs/domain"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
)

// SearchAPI exposes the session's search controller.
type SearchAPI struct {
	errs *ErrorResponder
}

// NewSearchAPI creates a SearchAPI.
func NewSearchAPI(errs *ErrorResponder) SearchAPI {
	return SearchAPI{errs: errs}
}

// Get /v1/search
// Returns the current page, loading the first one on first use
func (api *SearchAPI) Get(c *gin.Context) {
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.Load(ctx)
	})
}

// Post /v1/search/refresh
// Re-fetches the first page under the current filters and sort
func (api *SearchAPI) Refresh(c *gin.Context) {
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.Refresh(ctx)
	})
}

// Put /v1/search/filters
// Replaces the filters and returns to the first page
func (api *SearchAPI) ApplyFilters(c *gin.Context) {
	var payload mapper.SearchFilters
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.errs.BadRequest(c, err)
		return
	}
	filters := mapper.ToDomainFilters(payload)
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.ApplyFilters(ctx, filters)
	})
}

// Post /v1/search/sort/:field
// Switches to field ascending, or flips the direction of the active field
func (api *SearchAPI) ToggleSort(c *gin.Context) {
	field := dogdomain.SortField(c.Param("field"))
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.ToggleSort(ctx, field)
	})
}

// Post /v1/search/next
// Follows the forward cursor
func (api *SearchAPI) NextPage(c *gin.Context) {
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.NextPage(ctx)
	})
}

// Post /v1/search/prev
// Follows the backward cursor
func (api *SearchAPI) PrevPage(c *gin.Context) {
	api.run(c, func(ctx context.Context, search *searchapp.Controller) (searchapp.Snapshot, error) {
		return search.PrevPage(ctx)
	})
}

func (api *SearchAPI) run(c *gin.Context, op func(context.Context, *searchapp.Controller) (searchapp.Snapshot, error)) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	snap, err := op(ctx, ws.Search)
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	respondPage(c, api.errs, ws, snap)
}

func respondPage(c *gin.Context, errs *ErrorResponder, ws *sessionapp.Workspace, snap searchapp.Snapshot) {
	favorites, err := ws.Favorites.Set(c.Request.Context(), ws.UserKey())
	if err != nil {
		errs.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSnapshot(snap, favorites))
}
