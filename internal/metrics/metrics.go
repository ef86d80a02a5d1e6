// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles Prometheus metrics for map rendering and click handling.
type Collector struct {
	gatherer prometheus.Gatherer

	Renders        *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	Clicks         prometheus.Counter
	VisibleGroups  prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Metrics already registered under the same name are reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	renders, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antennamap_renders_total",
		Help: "Total number of rendered maps, labeled by output format.",
	}, []string{"format"}), "antennamap_renders_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "antennamap_render_duration_seconds",
		Help:    "Map rendering latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "antennamap_render_duration_seconds")
	if err != nil {
		return nil, err
	}
	clicks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antennamap_click_events_total",
		Help: "Total number of antenna click events received.",
	}), "antennamap_click_events_total")
	if err != nil {
		return nil, err
	}
	visible, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "antennamap_visible_groups",
		Help: "Number of groups in the most recently rendered map.",
	}), "antennamap_visible_groups")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Renders:        renders,
		RenderDuration: duration,
		Clicks:         clicks,
		VisibleGroups:  visible,
	}, nil
}

// ObserveRender records one render in format that started at start.
func (c *Collector) ObserveRender(format string, start time.Time) {
	if c == nil {
		return
	}
	c.Renders.WithLabelValues(format).Inc()
	c.RenderDuration.Observe(time.Since(start).Seconds())
}

func (c *Collector) RecordClick() {
	if c == nil {
		return
	}
	c.Clicks.Inc()
}

func (c *Collector) SetVisibleGroups(n int) {
	if c == nil {
		return
	}
	c.VisibleGroups.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
