package server

import (
	"strata/internal/server/middleware"
	"strata/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Query resolution
	apiRoutes.POST("/resolve", routes.ResolveQueryHandler, middleware.RequirePermission("query.resolve"))
	apiRoutes.GET("/schema/intent", routes.GetIntentSchemaHandler, middleware.RequirePermission("schema.view"))

	// Graph inspection
	apiRoutes.GET("/stats", routes.GetStatsHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/concepts/:concept/sources", routes.GetConceptSourcesHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.GET("/join-path", routes.GetJoinPathHandler, middleware.RequirePermission("graph.view"))

	// Rebuild trigger
	apiRoutes.POST("/rebuild", routes.TriggerRebuildHandler, middleware.RequirePermission("graph.rebuild"))
}
