package management

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/open-crosspost/crosspost-proxy/internal/util"
)

const readinessProbeTimeout = 5 * time.Second

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler additionally pings the store when one is configured, so
// load balancers stop routing to an instance that cannot serve credentials.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		if s.Redis != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
			defer cancel()

			if err := s.Redis.Ping(ctx).Err(); err != nil {
				util.LogFromContext(ctx).Warn().Err(err).Msg("Readiness probe failed to ping redis")
				return c.String(http.StatusServiceUnavailable, "Not ready.")
			}
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
