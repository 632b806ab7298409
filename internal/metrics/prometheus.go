package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "batchbench"

// PassObservation は1パスの結果
type PassObservation struct {
	Strategy string
	Ordinal  int
	Elapsed  time.Duration
	Written  int
	Batches  int
	Dropped  int
}

// Collector はパス結果をPrometheusレジストリに反映する
type Collector struct {
	registry *prometheus.Registry

	objects      *prometheus.CounterVec
	batches      *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	failures     *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	throughput   *prometheus.GaugeVec
}

// NewCollector は専用レジストリを持つCollectorを作成する
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		objects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_written_total",
			Help:      "Objects written by completed benchmark passes.",
		}, []string{"strategy"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch executions issued by completed benchmark passes.",
		}, []string{"strategy"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_dropped_total",
			Help:      "Objects left unwritten because the trailing batch was not flushed.",
		}, []string{"strategy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_failures_total",
			Help:      "Benchmark passes aborted by a store error.",
		}, []string{"strategy"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of benchmark passes.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"strategy"}),
		throughput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pass_objects_per_second",
			Help:      "Objects per second achieved by the most recent run of each pass.",
		}, []string{"strategy", "pass"}),
	}

	c.registry.MustRegister(c.objects, c.batches, c.dropped, c.failures, c.passDuration, c.throughput)
	return c
}

// Registry はレジストリを返す
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObservePass は完了したパスを記録する
func (c *Collector) ObservePass(obs PassObservation) {
	c.objects.WithLabelValues(obs.Strategy).Add(float64(obs.Written))
	c.batches.WithLabelValues(obs.Strategy).Add(float64(obs.Batches))
	c.dropped.WithLabelValues(obs.Strategy).Add(float64(obs.Dropped))
	c.passDuration.WithLabelValues(obs.Strategy).Observe(obs.Elapsed.Seconds())
	c.throughput.WithLabelValues(obs.Strategy, strconv.Itoa(obs.Ordinal)).Set(Throughput(obs.Written, obs.Elapsed))
}

// ObserveFailure は中断されたパスを記録する
func (c *Collector) ObserveFailure(strategy string) {
	c.failures.WithLabelValues(strategy).Inc()
}
