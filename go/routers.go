package dogfinderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes are served without a portal session.
	Public bool
}

// ApiHandleFunctions groups the handlers of every resource.
type ApiHandleFunctions struct {
	SessionAPI   SessionAPI
	BreedsAPI    BreedsAPI
	SearchAPI    SearchAPI
	FavoritesAPI FavoritesAPI
	MatchAPI     MatchAPI
}

// NewRouter returns a new router. middleware runs before every route;
// requireSession runs before every non-public route.
func NewRouter(handleFunctions ApiHandleFunctions, requireSession gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, requireSession, middleware...)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, requireSession gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	router.Use(middleware...)
	public := router.Group("")
	protected := router.Group("")
	if requireSession != nil {
		protected.Use(requireSession)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		group := protected
		if route.Public {
			group = public
		}
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz, true},

		{"Login", http.MethodPost, "/v1/session/login", handleFunctions.SessionAPI.Login, true},
		{"Logout", http.MethodPost, "/v1/session/logout", handleFunctions.SessionAPI.Logout, false},
		{"CurrentSession", http.MethodGet, "/v1/session", handleFunctions.SessionAPI.Current, false},

		{"ListBreeds", http.MethodGet, "/v1/breeds", handleFunctions.BreedsAPI.List, false},

		{"GetSearch", http.MethodGet, "/v1/search", handleFunctions.SearchAPI.Get, false},
		{"RefreshSearch", http.MethodPost, "/v1/search/refresh", handleFunctions.SearchAPI.Refresh, false},
		{"ApplyFilters", http.MethodPut, "/v1/search/filters", handleFunctions.SearchAPI.ApplyFilters, false},
		{"ToggleSort", http.MethodPost, "/v1/search/sort/:field", handleFunctions.SearchAPI.ToggleSort, false},
		{"NextPage", http.MethodPost, "/v1/search/next", handleFunctions.SearchAPI.NextPage, false},
		{"PrevPage", http.MethodPost, "/v1/search/prev", handleFunctions.SearchAPI.PrevPage, false},

		{"ListFavorites", http.MethodGet, "/v1/favorites", handleFunctions.FavoritesAPI.List, false},
		{"ListFavoriteIDs", http.MethodGet, "/v1/favorites/ids", handleFunctions.FavoritesAPI.IDs, false},
		{"ToggleFavorite", http.MethodPost, "/v1/favorites/:dogId/toggle", handleFunctions.FavoritesAPI.Toggle, false},

		{"RunMatch", http.MethodPost, "/v1/match", handleFunctions.MatchAPI.Run, false},
		{"CurrentMatch", http.MethodGet, "/v1/match", handleFunctions.MatchAPI.Current, false},
		{"DismissMatch", http.MethodDelete, "/v1/match", handleFunctions.MatchAPI.Dismiss, false},
	}
}
