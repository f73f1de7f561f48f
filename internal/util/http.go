package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request/response payloads that can check
// their own required fields.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the request body into v and runs its
// validation, translating failures into a 400 for the error handler.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to bind request body").SetInternal(err)
	}
	if err := v.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// ValidateAndReturn validates the response payload before writing it, so a
// handler bug cannot emit a half-filled response.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return c.JSON(code, v)
}
