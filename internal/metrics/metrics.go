package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service bundles the counters the auth and custody layers report into.
// Counters are registered on the passed registerer so tests can use an
// isolated registry per server.
type Service struct {
	AuthenticationResults *prometheus.CounterVec
	CredentialOperations  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Service {
	factory := promauto.With(reg)

	return &Service{
		AuthenticationResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crosspost",
			Subsystem: "auth",
			Name:      "authentication_results_total",
			Help:      "Authentication outcomes by result",
		}, []string{"result"}),
		CredentialOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crosspost",
			Subsystem: "custody",
			Name:      "credential_operations_total",
			Help:      "Credential store/get/revoke operations by outcome",
		}, []string{"operation", "outcome"}),
	}
}

func (s *Service) ObserveAuthentication(valid bool) {
	if s == nil {
		return
	}
	result := "rejected"
	if valid {
		result = "verified"
	}
	s.AuthenticationResults.WithLabelValues(result).Inc()
}

func (s *Service) ObserveCredentialOperation(operation string, err error) {
	if s == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.CredentialOperations.WithLabelValues(operation, outcome).Inc()
}
