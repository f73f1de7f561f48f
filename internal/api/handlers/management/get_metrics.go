package management

import (
	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/api"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	handler := promhttp.HandlerFor(s.MetricsRegistry, promhttp.HandlerOpts{})
	return s.Router.Management.GET("/metrics", echo.WrapHandler(handler))
}
