package routes

import (
	"net/http"
	"time"

	"strata/internal/server/middleware"
	"strata/pkg/semgraph"

	"github.com/labstack/echo/v4"
)

type statsResponse struct {
	semgraph.Stats
	Epoch   int64     `json:"epoch"`
	BuiltAt time.Time `json:"built_at"`
}

func GetStatsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	snap := app.Graphs.Snapshot()

	return c.JSON(http.StatusOK, statsResponse{
		Stats:   snap.Graph.Stats(),
		Epoch:   snap.Epoch,
		BuiltAt: snap.BuiltAt,
	})
}
