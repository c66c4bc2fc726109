package routes

import (
	"net/http"

	"strata/internal/server/middleware"
	"strata/pkg/resolve"

	"github.com/labstack/echo/v4"
)

func ResolveQueryHandler(c echo.Context) error {
	intent := new(resolve.QueryIntent)
	if err := c.Bind(intent); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(intent); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "At least one concept is required"})
	}

	app := c.(*middleware.AppContext).App
	res := app.Graphs.Resolver().Resolve(app.Graphs.Graph(), *intent)

	return c.JSON(http.StatusOK, res)
}
