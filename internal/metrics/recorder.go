// Package metrics exports engine activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements pairwise.Observer.
type Recorder struct {
	Computations prometheus.Counter
	Rows         prometheus.Counter
	Pairs        prometheus.Counter
	Particles    prometheus.Gauge
	Duration     prometheus.Histogram
}

// NewRecorder registers the collectors on reg. A nil reg creates unregistered
// collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Computations: f.NewCounter(prometheus.CounterOpts{
			Name: "pairdist_computations_total",
			Help: "Total number of distance matrices computed",
		}),
		Rows: f.NewCounter(prometheus.CounterOpts{
			Name: "pairdist_rows_total",
			Help: "Total number of outer-index row tasks completed",
		}),
		Pairs: f.NewCounter(prometheus.CounterOpts{
			Name: "pairdist_pairs_total",
			Help: "Total number of unordered pair distances computed",
		}),
		Particles: f.NewGauge(prometheus.GaugeOpts{
			Name: "pairdist_particles",
			Help: "Particle count of the most recent computation",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pairdist_compute_seconds",
			Help:    "Wall time of one distance matrix computation",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// OnRow is called concurrently by worker goroutines; prometheus counters are
// safe for that.
func (r *Recorder) OnRow(i, pairs int) {
	r.Rows.Inc()
	r.Pairs.Add(float64(pairs))
}

func (r *Recorder) OnComplete(n int, elapsed time.Duration) {
	r.Computations.Inc()
	r.Particles.Set(float64(n))
	r.Duration.Observe(elapsed.Seconds())
}

// Snapshot flattens the gathered families into name → value. Counters and
// gauges report their value, histograms their sample sum and _count.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(mfs))
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			switch {
			case m.GetCounter() != nil:
				out[name] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[name] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[name] += m.GetHistogram().GetSampleSum()
				out[name+"_count"] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
