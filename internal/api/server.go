package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/open-crosspost/crosspost-proxy/internal/auth"
	"github.com/open-crosspost/crosspost-proxy/internal/config"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/open-crosspost/crosspost-proxy/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	Routes           []*echo.Route
	Root             *echo.Group
	Management       *echo.Group
	APIV1Auth        *echo.Group
	APIV1Credentials *echo.Group
	APIV1Accounts    *echo.Group
}

// Server is a central struct keeping all the dependencies. Components are
// created by the providers in providers.go, in order, by InitComponents;
// Echo and Router are attached afterwards by router.Init.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config          config.Server
	Redis           *redis.Client // nil when running on the in-memory store
	KV              storage.KV
	Metrics         *metrics.Service
	MetricsRegistry *prometheus.Registry
	Auth            *auth.Service
}

func NewServer(config config.Server) *Server {
	return &Server{Config: config}
}

// Ready reports whether every component the router needs has been
// initialized.
func (s *Server) Ready() bool {
	return s.KV != nil &&
		s.Auth != nil &&
		s.Metrics != nil &&
		s.Echo != nil &&
		s.Router != nil
}

func (s *Server) Start() error {
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
