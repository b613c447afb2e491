package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordCodeIssued()
	c.RecordCodeIssued()
	c.RecordDeliveryFailure()
	c.RecordVerification(OutcomeSuccess)
	c.RecordVerification(OutcomeInvalid)
	c.RecordVerification(OutcomeInvalid)
	c.RecordRowsImported(42)
	c.RecordSummaryRun(nil)
	c.RecordSummaryRun(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.codesIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deliveryFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.verifications.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.rowsImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.summaryRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.summaryRuns.WithLabelValues("error")))
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSessionIssued()
	c.RecordHTTPRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "dat_sessions_issued_total 1")
	assert.Contains(t, rr.Body.String(), "dat_http_request_duration_seconds")
}
