package routes

import (
	"net/http"

	"strata/internal/server/middleware"
	"strata/pkg/semgraph"

	"github.com/labstack/echo/v4"
)

func GetConceptSourcesHandler(c echo.Context) error {
	type conceptSourcesParams struct {
		Concept string `param:"concept" validate:"required"`
	}

	params := new(conceptSourcesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	g := app.Graphs.Graph()

	if g.NodeByID(semgraph.ConceptID(params.Concept)) == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown concept"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"concept": params.Concept,
		"sources": g.ConceptSources(params.Concept),
	})
}
