package api

import (
	"context"
	"time"

	"github.com/open-crosspost/crosspost-proxy/internal/auth"
	"github.com/open-crosspost/crosspost-proxy/internal/config"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/custody"
	"github.com/open-crosspost/crosspost-proxy/internal/infra/storage"
	"github.com/open-crosspost/crosspost-proxy/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PROVIDERS - component constructors invoked in order by InitComponents.
// Keeping them as standalone functions keeps the construction order explicit
// and lets tests build partial servers.

func NewRedisClient(cfg config.Server) (*redis.Client, error) {
	if cfg.Redis.Endpoint == "" {
		return nil, errors.New("Redis Endpoint is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Endpoint,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return client, nil
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

func NewAuthService(cfg config.Server, kv storage.KV, metricsService *metrics.Service) *auth.Service {
	cipher := custody.NewCipher(cfg.Auth.CredentialEncryptionKey)
	return auth.NewService(cfg.Auth.Recipient, cipher, kv, metricsService)
}

// InitComponents builds the component graph. With no Redis endpoint
// configured the server falls back to the process-local store, which is
// meant for tests and local runs only.
func (s *Server) InitComponents() error {
	if s.Config.Auth.CredentialEncryptionKey == "" {
		return errors.New("Auth CredentialEncryptionKey is not configured")
	}

	s.MetricsRegistry = NewMetricsRegistry()
	s.Metrics = metrics.New(s.MetricsRegistry)

	if s.Config.Redis.Endpoint != "" {
		client, err := NewRedisClient(s.Config)
		if err != nil {
			return errors.Wrap(err, "failed to initialize redis client")
		}
		s.Redis = client
		s.KV = storage.NewRedisKV(client, s.Config.Redis.KeyPrefix)
	} else {
		log.Warn().Msg("No Redis endpoint configured, falling back to in-memory store")
		s.KV = storage.NewMemoryKV()
	}

	s.Auth = NewAuthService(s.Config, s.KV, s.Metrics)

	return nil
}
