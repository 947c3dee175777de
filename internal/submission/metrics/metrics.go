package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the submission pipeline.
type Metrics struct {
	SubmissionsAccepted  prometheus.Counter
	SubmissionsSpam      prometheus.Counter
	SubmissionsRejected  *prometheus.CounterVec
	ValidationFailures   *prometheus.CounterVec
	ProcessingDurationMs prometheus.Histogram
	NotificationsQueued  prometheus.Counter
	NotificationsDropped prometheus.Counter
	ClientFamilies       *prometheus.CounterVec
}

// New registers and returns submission metrics collectors.
// Call once per process; promauto panics on duplicate registration.
func New() *Metrics {
	return &Metrics{
		SubmissionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canopy_submissions_accepted_total",
			Help: "Total number of submissions accepted and stored",
		}),
		SubmissionsSpam: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canopy_submissions_spam_total",
			Help: "Total number of submissions flagged as spam",
		}),
		SubmissionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "canopy_submissions_rejected_total",
			Help: "Total number of submissions rejected, labeled by reason",
		}, []string{"reason"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "canopy_validation_failures_total",
			Help: "Total number of field validation failures, labeled by field type",
		}, []string{"field_type"}),
		ProcessingDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "canopy_submission_processing_duration_ms",
			Help:    "Duration of submission processing in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		NotificationsQueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canopy_notifications_queued_total",
			Help: "Total number of owner notifications queued for delivery",
		}),
		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canopy_notifications_dropped_total",
			Help: "Total number of owner notifications dropped due to a full buffer",
		}),
		ClientFamilies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "canopy_submission_clients_total",
			Help: "Total number of submissions labeled by client device class",
		}, []string{"client"}),
	}
}

// IncrementAccepted increments the accepted submissions counter by 1.
func (m *Metrics) IncrementAccepted() {
	m.SubmissionsAccepted.Inc()
}

// IncrementSpam increments the spam submissions counter by 1.
func (m *Metrics) IncrementSpam() {
	m.SubmissionsSpam.Inc()
}

// IncrementRejected increments the rejected counter with a reason label.
func (m *Metrics) IncrementRejected(reason string) {
	m.SubmissionsRejected.WithLabelValues(reason).Inc()
}

// IncrementValidationFailure increments the validation failures counter with a field type label.
func (m *Metrics) IncrementValidationFailure(fieldType string) {
	m.ValidationFailures.WithLabelValues(fieldType).Inc()
}

// ObserveProcessingDuration records the end-to-end processing time in milliseconds.
func (m *Metrics) ObserveProcessingDuration(durationMs float64) {
	m.ProcessingDurationMs.Observe(durationMs)
}

// IncrementNotificationsQueued increments the queued notifications counter by 1.
func (m *Metrics) IncrementNotificationsQueued() {
	m.NotificationsQueued.Inc()
}

// IncrementNotificationsDropped increments the dropped notifications counter by 1.
func (m *Metrics) IncrementNotificationsDropped() {
	m.NotificationsDropped.Inc()
}

// IncrementClientFamily increments the per-client counter with a device class label.
func (m *Metrics) IncrementClientFamily(client string) {
	m.ClientFamilies.WithLabelValues(client).Inc()
}

// Rejection reason labels.
const (
	ReasonOrigin      = "origin"
	ReasonRateLimited = "rate_limited"
	ReasonClosed      = "closed"
	ReasonValidation  = "validation"
	ReasonNotFound    = "not_found"
)
