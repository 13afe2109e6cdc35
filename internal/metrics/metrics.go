// Package metrics defines the run's Prometheus collectors as package-level
// Gauge/HistogramVec/Counter literals, registered once by Registry.
//
// This binary never opens a network listener, so there is no /metrics HTTP
// handler here. Instead, Snapshot renders the final values through expfmt
// and the caller logs them as one summary line before exit: typed, labeled
// counters instead of hand-rolled package-level ints, without adding a
// network surface.
package metrics

import (
	"bytes"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	GraphNodesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "asrelsim_graph_nodes_loaded",
		Help: "Number of AS nodes loaded from the relationship file.",
	})

	GraphEdgesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "asrelsim_graph_edges_loaded",
		Help: "Number of directed provider/peer edges loaded from the relationship file.",
	})

	PhaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asrelsim_phase_duration_seconds",
		Help:    "Wall-clock duration of a single propagation phase (up, peer or down).",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	RIBEntriesFinal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "asrelsim_rib_entries_final",
		Help: "Total RIB entries across all AS after Run completes.",
	})

	AnnouncementsDroppedROV = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asrelsim_announcements_dropped_rov_total",
		Help: "Announcements dropped at receive because the holder is ROV-enabled.",
	})
)

// Registry bundles the collectors above into a private registry, so that
// Register never touches the global prometheus.DefaultRegisterer (which
// would otherwise imply a /metrics endpoint is about to be served).
func Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(GraphNodesLoaded, GraphEdgesLoaded, PhaseDuration, RIBEntriesFinal, AnnouncementsDroppedROV)
	return r
}

// Snapshot renders every collector's current value in the Prometheus text
// exposition format, as one (multi-line) string suitable for a single field
// of one zap.Logger.Info call.
func Snapshot(r *prometheus.Registry) (string, error) {
	families, err := r.Gather()
	if err != nil {
		return "", fmt.Errorf("metrics: gathering: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return "", fmt.Errorf("metrics: encoding: %w", err)
		}
	}
	return buf.String(), nil
}
