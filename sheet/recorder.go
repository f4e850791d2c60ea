package sheet

import "github.com/prometheus/client_golang/prometheus"

// Recorder counts engine-level events for an embedding host's metrics
// surface. A Sheet never requires one — the default is a no-op — but
// wires it at exactly the points a real operator dashboard would want: a
// commit, a rejected cycle, a cache-invalidation sweep's size.
type Recorder interface {
	WriteCommitted()
	CycleRejected()
	CacheInvalidated(count int)
}

type nopRecorder struct{}

func (nopRecorder) WriteCommitted()          {}
func (nopRecorder) CycleRejected()           {}
func (nopRecorder) CacheInvalidated(int)     {}

// PrometheusRecorder is a Recorder backed by github.com/prometheus/client_golang
// counters, in the style gyaan-fluxflow and rafagsiqueira-farseek register
// their own engine metrics.
type PrometheusRecorder struct {
	writesCommitted  prometheus.Counter
	cyclesRejected   prometheus.Counter
	cellsInvalidated prometheus.Counter
}

// NewPrometheusRecorder creates the three counters this package reports and
// registers them against reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		writesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsheet_writes_committed_total",
			Help: "Number of SetCell calls that committed successfully.",
		}),
		cyclesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsheet_cycles_rejected_total",
			Help: "Number of SetCell calls rejected for introducing a circular dependency.",
		}),
		cellsInvalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsheet_cells_invalidated_total",
			Help: "Number of cell caches reset across all reverse-invalidation sweeps.",
		}),
	}
	reg.MustRegister(r.writesCommitted, r.cyclesRejected, r.cellsInvalidated)
	return r
}

func (r *PrometheusRecorder) WriteCommitted() { r.writesCommitted.Inc() }
func (r *PrometheusRecorder) CycleRejected()  { r.cyclesRejected.Inc() }
func (r *PrometheusRecorder) CacheInvalidated(count int) {
	r.cellsInvalidated.Add(float64(count))
}
