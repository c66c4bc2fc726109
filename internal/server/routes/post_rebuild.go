package routes

import (
	"net/http"
	"strconv"

	"strata/internal/queue"
	"strata/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func TriggerRebuildHandler(c echo.Context) error {
	type rebuildParams struct {
		Reason string `json:"reason" validate:"required,oneof=classification_run edge_refresh contour_approved"`
	}

	params := new(rebuildParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid rebuild reason"})
	}

	user := c.(*middleware.AppContext).User
	app := c.(*middleware.AppContext).App

	err := queue.PublishRebuild(app.Queue, queue.RebuildMsg{
		Reason:      params.Reason,
		RequestedBy: strconv.FormatInt(user.UserID, 10),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue rebuild"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued", "reason": params.Reason})
}
