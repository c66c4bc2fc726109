package routes

import (
	"net/http"

	"strata/pkg/resolve"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
)

// Reflected once; the intent shape only changes at compile time.
var intentSchema = jsonschema.Reflect(&resolve.QueryIntent{})

func GetIntentSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, intentSchema)
}
