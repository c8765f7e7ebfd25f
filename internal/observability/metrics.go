package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for one pipeline run.
// A batch run has no scrape endpoint, so metrics live on a private registry
// that is flushed to a node_exporter textfile at the end of the run.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded  prometheus.Counter
	RowsKept    prometheus.Counter
	RowsDropped *prometheus.CounterVec // labels: reason

	ArtifactsWritten *prometheus.CounterVec // labels: kind={figure,map,workbook,table,manifest}

	StageDuration   *prometheus.GaugeVec // labels: stage={load,clean,write,report}
	LastRunSuccess  prometheus.Gauge
	LastRunUnixTime prometheus.Gauge
}

// NewMetrics creates all pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cetacea_eda",
			Name:      "rows_loaded_total",
			Help:      "Raw rows read from the input extract.",
		}),
		RowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cetacea_eda",
			Name:      "rows_kept_total",
			Help:      "Rows retained in the cleaned table.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cetacea_eda",
			Name:      "rows_dropped_total",
			Help:      "Rows excluded during cleaning, by reason.",
		}, []string{"reason"}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cetacea_eda",
			Name:      "artifacts_written_total",
			Help:      "Files written to the output directory, by kind.",
		}, []string{"kind"}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cetacea_eda",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of the last run of each pipeline stage.",
		}, []string{"stage"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cetacea_eda",
			Name:      "last_run_success",
			Help:      "1 when the last run completed, 0 when it aborted.",
		}),
		LastRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cetacea_eda",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
	}

	m.Registry.MustRegister(
		m.RowsLoaded,
		m.RowsKept,
		m.RowsDropped,
		m.ArtifactsWritten,
		m.StageDuration,
		m.LastRunSuccess,
		m.LastRunUnixTime,
	)

	return m
}

// WriteTextfile writes the registry in Prometheus text format, atomically
// replacing path. Intended for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
