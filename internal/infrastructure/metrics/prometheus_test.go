package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/infrastructure/metrics"
)

func TestPrometheus_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("kinetic", reg)

	m.InvoiceCreated()
	m.InvoiceCreated()
	m.EmailDispatched("SMTP", "Sent")
	m.EmailDispatched("SMTP", "Failed")
	m.TimersClosed("stale", 3)
	m.TimersClosed("manual", 0)
	m.PermissionsMaterialized("Operations")
	m.ObserveRequest("GET", "/t/:slug/deployments", 200, 15*time.Millisecond)

	n, err := testutil.GatherAndCount(reg,
		"kinetic_invoices_created_total",
		"kinetic_emails_dispatched_total",
		"kinetic_work_timers_closed_total",
		"kinetic_permissions_materialized_total",
		"kinetic_http_requests_total",
	)
	require.NoError(t, err)
	// 1 factura + 2 series de email + 1 de timers (manual con 0 no crea serie) + 1 permiso + 1 petición
	assert.Equal(t, 6, n)
}

func TestPrometheus_Handler(t *testing.T) {
	m := metrics.New("kinetic", nil)
	m.TimersClosed("stale", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kinetic_work_timers_closed_total{reason="stale"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}
