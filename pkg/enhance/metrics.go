package enhance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeOK       = "ok"
	outcomeAPIError = "api_error"
	outcomeNoImage  = "no_image"
	outcomeFailed   = "failed"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	bytesOut prometheus.Counter
}

// newMetrics creates the client metrics on reg. A nil reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realist",
			Subsystem: "enhance",
			Name:      "requests_total",
			Help:      "Enhancement requests by model and outcome",
		}, []string{"model", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "realist",
			Subsystem: "enhance",
			Name:      "request_duration_seconds",
			Help:      "Enhancement request duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"model"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "realist",
			Subsystem: "enhance",
			Name:      "requests_in_flight",
			Help:      "Enhancement requests currently waiting on the model",
		}),

		bytesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "realist",
			Subsystem: "enhance",
			Name:      "uploaded_bytes_total",
			Help:      "Encoded image bytes sent to the model",
		}),
	}
}
