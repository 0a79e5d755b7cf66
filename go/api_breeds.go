package dogfinderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BreedsAPI serves the breed list used by the filter form.
type BreedsAPI struct {
	errs *ErrorResponder
}

// NewBreedsAPI creates a BreedsAPI.
func NewBreedsAPI(errs *ErrorResponder) BreedsAPI {
	return BreedsAPI{errs: errs}
}

// Get /v1/breeds
// Lists every breed known to the dog service
func (api *BreedsAPI) List(c *gin.Context) {
	ws, ok := currentWorkspace(c, api.errs)
	if !ok {
		return
	}
	breeds, err := ws.Catalog.Breeds(c.Request.Context())
	if err != nil {
		api.errs.Respond(c, err)
		return
	}
	if breeds == nil {
		breeds = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"breeds": breeds})
}
