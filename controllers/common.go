package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/services"
)

// serviceErrorResponse maps the service error taxonomy onto HTTP
// statuses. Anything outside the taxonomy is a 500 with a generic
// message; the underlying error goes to the request logger only.
func serviceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: err.Error(),
		})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
