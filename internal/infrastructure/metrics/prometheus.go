// Package metrics contadores Prometheus de negocio y de peticiones HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kinetic/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implementa ports.Metrics sobre un registro propio.
type Prometheus struct {
	gatherer prometheus.Gatherer

	invoicesCreated         prometheus.Counter
	emailsDispatched        *prometheus.CounterVec
	timersClosed            *prometheus.CounterVec
	permissionsMaterialized *prometheus.CounterVec

	requestDuration *prometheus.HistogramVec
	requestCounter  *prometheus.CounterVec
}

// New registra las métricas en reg. Con reg nil se crea un registro nuevo
// que incluye los colectores de proceso y del runtime de Go.
func New(namespace string, reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	}
	f := promauto.With(reg)

	return &Prometheus{
		gatherer: reg,

		invoicesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Total number of invoices created",
		}),
		emailsDispatched: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emails_dispatched_total",
				Help:      "Total number of email delivery attempts",
			},
			[]string{"provider", "status"},
		),
		timersClosed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "work_timers_closed_total",
				Help:      "Total number of work timers closed",
			},
			[]string{"reason"},
		),
		permissionsMaterialized: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "permissions_materialized_total",
				Help:      "Total number of permission sets materialized for users",
			},
			[]string{"role"},
		),

		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (p *Prometheus) InvoiceCreated() { p.invoicesCreated.Inc() }

func (p *Prometheus) EmailDispatched(provider, status string) {
	p.emailsDispatched.WithLabelValues(provider, status).Inc()
}

func (p *Prometheus) TimersClosed(reason string, n int) {
	if n > 0 {
		p.timersClosed.WithLabelValues(reason).Add(float64(n))
	}
}

func (p *Prometheus) PermissionsMaterialized(role string) {
	p.permissionsMaterialized.WithLabelValues(role).Inc()
}

// ObserveRequest registra una petición HTTP ya atendida.
// route es el patrón de la ruta, no la URL, para acotar la cardinalidad.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	p.requestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler expone el registro en formato texto de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
