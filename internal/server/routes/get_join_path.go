package routes

import (
	"net/http"

	"strata/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func GetJoinPathHandler(c echo.Context) error {
	type joinPathParams struct {
		From    string `query:"from" validate:"required"`
		To      string `query:"to" validate:"required"`
		MaxHops int    `query:"max_hops"`
	}

	params := new(joinPathParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Both from and to systems are required"})
	}

	app := c.(*middleware.AppContext).App
	path, ok := app.Graphs.Graph().FindJoinPath(params.From, params.To, params.MaxHops)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No join path found"})
	}

	return c.JSON(http.StatusOK, path)
}
