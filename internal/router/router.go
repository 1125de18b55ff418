// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/peopledb/internal/handler"
	"github.com/deppfellow/peopledb/internal/middleware"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain, the
// system routes and the versioned API.
//
// The request id and New Relic transaction must exist before ContextEnhancer
// builds the request logger. Recover sits inside RequestLogger so a panic is
// still logged with its final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h, s)

	v1 := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerPeopleRoutes(v1, h)

	return router
}
