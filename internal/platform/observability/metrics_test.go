package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.RecordIngested("event", 3)
	m.RecordIngested("event", 2)
	m.RecordIngested("event", 0)
	m.RecordRejected("event", "validation")
	m.RecordReportQuery("os_name", "ok")
	m.ObserveBatch(15 * time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.ingested.WithLabelValues("event")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("event", "validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportQueries.WithLabelValues("os_name", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordIngested("device", 1)
		m.RecordRejected("device", "storage")
		m.RecordReportQuery("combined", "error")
		m.ObserveBatch(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordIngested("device", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stats_ingested_records_total{kind="device"} 1`)
}
