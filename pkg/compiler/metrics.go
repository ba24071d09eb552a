package compiler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the compiler's prometheus instrumentation, modeled on the
// Loader's cm/controllerMetrics pairing: a handful of counters/gauges
// registered once and updated from Compile.
type Metrics struct {
	compileTotal       prometheus.Counter
	compileFailures    prometheus.Counter
	compileDuration    prometheus.Histogram
	planSize           prometheus.Gauge
}

// NewMetrics constructs an unregistered Metrics. Callers that want these
// exported call Registerer.MustRegister(m.Collectors()...).
func NewMetrics() *Metrics {
	return &Metrics{
		compileTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdcompile",
			Name:      "compiles_total",
			Help:      "Total number of compile attempts.",
		}),
		compileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdcompile",
			Name:      "compile_failures_total",
			Help:      "Total number of compiles that ended in a fatal diagnostic.",
		}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sdcompile",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling a model into an EvalOp plan.",
			Buckets:   prometheus.DefBuckets,
		}),
		planSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sdcompile",
			Name:      "plan_size",
			Help:      "Number of EvalOp records in the most recently emitted plan.",
		}),
	}
}

// Collectors returns every metric for bulk registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.compileTotal, m.compileFailures, m.compileDuration, m.planSize}
}

type compileTimer struct {
	m     *Metrics
	start time.Time
}

func (m *Metrics) startCompile() *compileTimer {
	m.compileTotal.Inc()
	return &compileTimer{m: m, start: time.Now()}
}

func (t *compileTimer) observeDuration() {
	t.m.compileDuration.Observe(time.Since(t.start).Seconds())
}
