// Package profile maps a coarse compression level onto a concrete
// matchfinder.Config, the way a compressor's level knob picks an
// implementation and window sizing without exposing every tunable.
package profile

import "github.com/harriteja/matchcore/matchfinder"

// Level bounds exposed to callers that want to validate a level before
// passing it to ForLevel.
const (
	MinLevel     = 1
	MaxLevel     = 12
	DefaultLevel = 6
)

// Select returns the matchfinder.Algo that Create would bind for cfg,
// without constructing a Finder. Callers building diagnostics or CLI output
// can use it to describe a configuration before paying allocation cost.
func Select(cfg matchfinder.Config) matchfinder.Algo {
	switch {
	case cfg.CacheEfficientSearch:
		return matchfinder.AlgoCEHC
	case cfg.BTMode:
		return matchfinder.AlgoBT
	default:
		return matchfinder.AlgoHC
	}
}

// ForLevel builds a Config for the given 1..12 compression level, the
// single knob most callers tune. historySize and expectedDataSize carry
// through unchanged; level only decides the algorithm, hash width, and
// search-effort fields.
func ForLevel(level int, historySize uint32, expectedDataSize uint64) matchfinder.Config {
	if level < MinLevel || level > MaxLevel {
		level = DefaultLevel
	}

	cfg := matchfinder.Config{
		HistorySize:      historySize,
		MatchMaxLen:      1 << 20,
		ExpectedDataSize: expectedDataSize,
		Level:            level,
	}

	switch {
	case level <= 2:
		// Fastest: short chain walk. The 4-byte main hash still runs the
		// 2-/3-byte short-hash probes ahead of the walk.
		cfg.NumHashBytes = 4
		cfg.CutValue = 8

	case level <= 5:
		cfg.NumHashBytes = 4
		cfg.CutValue = 32

	case level <= 8:
		cfg.NumHashBytes = 5
		cfg.CutValue = 128
		cfg.CacheEfficientSearch = true

	default:
		// Best ratio: full binary-search-tree dictionary, widest hash,
		// deep walk budget.
		cfg.NumHashBytes = 5
		cfg.CutValue = 1 << 12
		cfg.BTMode = true
	}

	return cfg
}
