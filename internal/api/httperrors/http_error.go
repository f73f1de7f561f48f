package httperrors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPError is the public error payload every failing endpoint returns.
type HTTPError struct {
	Code     int    `json:"status"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Internal error  `json:"-"`
}

func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s, %v", e.Code, e.Type, e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// NewFromEcho converts an echo.HTTPError into our public shape.
func NewFromEcho(err *echo.HTTPError) *HTTPError {
	title := http.StatusText(err.Code)
	if msg, ok := err.Message.(string); ok && msg != "" {
		title = msg
	}

	return &HTTPError{
		Code:     err.Code,
		Type:     TypeGeneric,
		Title:    title,
		Internal: err.Internal,
	}
}
