// Package metrics holds the Prometheus collectors for recognition.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RecognitionDuration.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Fallback reasons.
const (
	ReasonNoCandidates = "no_candidates"
	ReasonEngineError  = "engine_error"
)

// Recorder records recognition metrics. A nil *Recorder is a no-op so
// tests and the CLI can skip registration.
type Recorder struct {
	duration   *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
	candidates prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duosplit_recognition_duration_seconds",
			Help:    "Time spent in a single OCR engine call.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"engine", "outcome"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duosplit_recognition_fallbacks_total",
			Help: "Remote fallback attempts by reason.",
		}, []string{"reason"}),
		candidates: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "duosplit_candidates_found",
			Help:    "Candidate prices per completed extraction.",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		}),
	}
}

// ObserveRecognition records one engine call.
func (r *Recorder) ObserveRecognition(engine, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(engine, outcome).Observe(d.Seconds())
}

// Fallback counts a remote fallback attempt.
func (r *Recorder) Fallback(reason string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(reason).Inc()
}

// Candidates records how many candidates an extraction produced.
func (r *Recorder) Candidates(n int) {
	if r == nil {
		return
	}
	r.candidates.Observe(float64(n))
}
