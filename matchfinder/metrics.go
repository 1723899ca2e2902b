package matchfinder

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the small set of counters a Finder exposes when a caller
// wires in a Registerer. They are deliberately coarse (per-call, not
// per-candidate) so enabling them doesn't change the hot loop's shape.
type metrics struct {
	matchesEmitted     prometheus.Counter
	normalizerTriggers prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		matchesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchfinder",
			Name:      "matches_emitted_total",
			Help:      "Number of (length, distance) candidates returned by GetMatches.",
		}),
		normalizerTriggers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchfinder",
			Name:      "normalizer_triggers_total",
			Help:      "Number of times the position normalizer has run.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.matchesEmitted, m.normalizerTriggers)
	}
	return m
}
