package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chamadosSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chamados_submitted_total",
			Help: "Tickets submitted through the public form",
		},
	)

	chamadosCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chamados_completed_total",
			Help: "Tickets marked completed",
		},
	)

	chamadosDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chamados_deleted_total",
			Help: "Tickets soft-deleted by an administrator",
		},
	)

	chamadosPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chamados_purged_total",
			Help: "Completed tickets physically removed by purge",
		},
	)

	pendingChamados = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chamados_pending",
			Help: "Non-deleted tickets still pending",
		},
	)

	reportRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chamados_report_render_seconds",
			Help:    "Report rendering duration by format",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)
)

func TrackSubmitted() { chamadosSubmitted.Inc() }
func TrackCompleted() { chamadosCompleted.Inc() }
func TrackDeleted() { chamadosDeleted.Inc() }

func TrackPurged(n int64) { chamadosPurged.Add(float64(n)) }
func SetPending(n int64) { pendingChamados.Set(float64(n)) }

// TrackReportRender records one render by format ("html" or "pdf").
func TrackReportRender(format string, d time.Duration) {
	reportRenderDuration.WithLabelValues(format).Observe(d.Seconds())
}
