package obs

import "github.com/prometheus/client_golang/prometheus"

// Submission result labels.
const (
	SubmissionPosted       = "posted"
	SubmissionMalformed    = "malformed"
	SubmissionInvalidDays  = "invalid_days"
	SubmissionNotifyFailed = "notify_failed"
)

type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec   // result=posted|malformed|invalid_days|notify_failed
	ResolutionsTotal *prometheus.CounterVec   // outcome=approved|rejected|rolled_back
	WebhookLatency   *prometheus.HistogramVec // endpoint=command|events
}

func NewMetrics() *Metrics {
	return &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leave_submissions_total",
				Help: "Leave request submissions by result",
			},
			[]string{"result"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leave_resolutions_total",
				Help: "Leave request resolutions by outcome",
			},
			[]string{"outcome"},
		),
		WebhookLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leave_webhook_latency_seconds",
				Help:    "Latency of inbound webhook handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.SubmissionsTotal, m.ResolutionsTotal, m.WebhookLatency)
}

// ObserveSubmission and ObserveResolution tolerate a nil receiver so the
// engine can run without metrics in tests.
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWebhook(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.WebhookLatency.WithLabelValues(endpoint).Observe(seconds)
}
