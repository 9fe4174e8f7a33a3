package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dskvich/ai-assistant/pkg/domain"
)

const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status_error"
	OutcomeShape     = "unexpected_response"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
)

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_provider_requests_total",
		Help: "Total number of requests sent to AI providers",
	}, []string{"provider", "outcome"})

	providerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_provider_request_duration_seconds",
		Help:    "Duration of requests sent to AI providers",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"provider"})

	savedResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_saved_responses_total",
		Help: "Total number of responses saved to history",
	}, []string{"type"})
)

// ObserveProvider records one finished provider call.
func ObserveProvider(provider string, started time.Time, err error) {
	providerDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
	providerRequests.WithLabelValues(provider, Outcome(err)).Inc()
}

func ObserveSaved(kind domain.ResponseKind) {
	savedResponses.WithLabelValues(string(kind)).Inc()
}

// Outcome classifies a provider call result for the outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	var providerErr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrUnexpectedResponse):
		return OutcomeShape
	case errors.As(err, &providerErr) && providerErr.StatusCode != 0:
		return OutcomeStatus
	case errors.As(err, &providerErr):
		return OutcomeTransport
	default:
		return OutcomeRejected
	}
}
