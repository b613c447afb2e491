// Package metrics exposes Prometheus counters for the login flow and the rate importer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Verification outcomes recorded by RecordVerification.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeExpired = "expired"
	OutcomeMissing = "missing"
)

// Recorder is what services and middleware depend on.
type Recorder interface {
	RecordCodeIssued()
	RecordDeliveryFailure()
	RecordVerification(outcome string)
	RecordSessionIssued()
	RecordGateRedirect()
	RecordRowsImported(count int)
	RecordSummaryRun(err error)
	RecordHTTPRequest(method string, status int, d time.Duration)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	codesIssued      prometheus.Counter
	deliveryFailures prometheus.Counter
	verifications    *prometheus.CounterVec
	sessionsIssued   prometheus.Counter
	gateRedirects    prometheus.Counter
	rowsImported     prometheus.Counter
	summaryRuns      *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewCollector registers all metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dat_verification_codes_issued_total",
			Help: "Verification codes generated and stored.",
		}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dat_verification_delivery_failures_total",
			Help: "Verification codes stored but not delivered.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dat_verification_attempts_total",
			Help: "Code verification attempts by outcome.",
		}, []string{"outcome"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dat_sessions_issued_total",
			Help: "Session tokens minted.",
		}),
		gateRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dat_gate_redirects_total",
			Help: "Requests redirected to the login page.",
		}),
		rowsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dat_rate_rows_imported_total",
			Help: "Rate rows copied from uploaded CSV files.",
		}),
		summaryRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dat_summary_runs_total",
			Help: "Route summary regenerations by result.",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dat_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		c.codesIssued,
		c.deliveryFailures,
		c.verifications,
		c.sessionsIssued,
		c.gateRedirects,
		c.rowsImported,
		c.summaryRuns,
		c.httpDuration,
	)
	return c
}

func (c *Collector) RecordCodeIssued() { c.codesIssued.Inc() }
func (c *Collector) RecordDeliveryFailure() { c.deliveryFailures.Inc() }
func (c *Collector) RecordSessionIssued() { c.sessionsIssued.Inc() }
func (c *Collector) RecordGateRedirect() { c.gateRedirects.Inc() }

func (c *Collector) RecordVerification(outcome string) {
	c.verifications.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRowsImported(count int) {
	c.rowsImported.Add(float64(count))
}

func (c *Collector) RecordSummaryRun(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.summaryRuns.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTPRequest(method string, status int, d time.Duration) {
	c.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Nop discards everything. Used when metrics are not wired, mostly in tests.
type Nop struct{}

func (Nop) RecordCodeIssued() {}
func (Nop) RecordDeliveryFailure() {}
func (Nop) RecordVerification(string) {}
func (Nop) RecordSessionIssued() {}
func (Nop) RecordGateRedirect() {}
func (Nop) RecordRowsImported(int) {}
func (Nop) RecordSummaryRun(error) {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
