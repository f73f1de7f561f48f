package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
	"github.com/rs/zerolog/log"
)

// RequestLogger injects a request-scoped zerolog logger tagged with a
// request id into the context and logs one line per completed request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			requestLogger := log.With().Str("request_id", requestID).Logger()
			ctx := requestLogger.WithContext(c.Request().Context())
			ctx = util.WithRequestID(ctx, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestLogger.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("Request handled")

			return err
		}
	}
}
