// control/collector.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus export of one buffer's state and counters.

package control

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/ring"
)

const namespace = "hioload_ring"

// Collector reads buffer counters at scrape time.
type Collector struct {
	buf   api.Inspector
	stats *ring.Stats

	count      *prometheus.Desc
	capacity   *prometheus.Desc
	highWater  *prometheus.Desc
	gateOpen   *prometheus.Desc
	elements   *prometheus.Desc
	rejections *prometheus.Desc
	restores   *prometheus.Desc
	flushes    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector for buf labelled buffer=name.
func NewCollector(name string, buf api.Inspector, stats *ring.Stats) *Collector {
	labels := prometheus.Labels{"buffer": name}
	desc := func(metric, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "buffer", metric), help, variable, labels)
	}
	return &Collector{
		buf:        buf,
		stats:      stats,
		count:      desc("elements", "Current number of elements held"),
		capacity:   desc("capacity", "Buffer capacity in elements"),
		highWater:  desc("high_water", "Highest element count observed"),
		gateOpen:   desc("gate_open", "Whether a direction gate is open (1) or closed (0)", "direction"),
		elements:   desc("operations_elements_total", "Elements moved by operation", "op"),
		rejections: desc("rejections_total", "Rejected operations by reason", "reason"),
		restores:   desc("restores_total", "Snapshot restores"),
		flushes:    desc("flushes_total", "Flushes"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.count, c.capacity, c.highWater, c.gateOpen,
		c.elements, c.rejections, c.restores, c.flushes,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats.Snapshot()
	gauge := func(d *prometheus.Desc, v float64, lv ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, lv...)
	}
	counter := func(d *prometheus.Desc, v uint64, lv ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), lv...)
	}

	gauge(c.count, float64(c.buf.Len()))
	gauge(c.capacity, float64(c.buf.Cap()))
	gauge(c.highWater, float64(s.HighWater))
	gauge(c.gateOpen, boolFloat(c.buf.PushGateOpen()), "push")
	gauge(c.gateOpen, boolFloat(c.buf.PopGateOpen()), "pop")

	counter(c.elements, s.Pushed, "push")
	counter(c.elements, s.Popped, "pop")
	counter(c.elements, s.PushedBack, "push_back")
	counter(c.rejections, s.RejectedFull, "full")
	counter(c.rejections, s.RejectedPushGated, "push_gated")
	counter(c.rejections, s.RejectedEmpty, "empty")
	counter(c.rejections, s.RejectedPopGated, "pop_gated")
	counter(c.rejections, s.RejectedPushBack, "push_back")
	counter(c.restores, s.Restores)
	counter(c.flushes, s.Flushes)
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
