package profile

import (
	"testing"

	"github.com/harriteja/matchcore/matchfinder"
)

func TestForLevelClampsOutOfRange(t *testing.T) {
	lo := ForLevel(0, 1<<16, 0)
	hi := ForLevel(99, 1<<16, 0)
	def := ForLevel(DefaultLevel, 1<<16, 0)
	if lo != def || hi != def {
		t.Fatalf("expected out-of-range levels to fall back to DefaultLevel's config")
	}
}

func TestSelectMatchesConfigFlags(t *testing.T) {
	cases := []struct {
		name string
		cfg  matchfinder.Config
		want matchfinder.Algo
	}{
		{"plain", matchfinder.Config{}, matchfinder.AlgoHC},
		{"bt", matchfinder.Config{BTMode: true}, matchfinder.AlgoBT},
		{"cehc", matchfinder.Config{CacheEfficientSearch: true}, matchfinder.AlgoCEHC},
		{"cehc wins over bt", matchfinder.Config{BTMode: true, CacheEfficientSearch: true}, matchfinder.AlgoCEHC},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Select(tc.cfg); got != tc.want {
				t.Errorf("Select(%+v) = %v, want %v", tc.cfg, got, tc.want)
			}
		})
	}
}

func TestForLevelAlgoProgression(t *testing.T) {
	fast := ForLevel(1, 1<<16, 0)
	mid := ForLevel(7, 1<<16, 0)
	best := ForLevel(12, 1<<16, 0)

	if Select(fast) != matchfinder.AlgoHC {
		t.Errorf("level 1 should select hash-chain, got %v", Select(fast))
	}
	if Select(mid) != matchfinder.AlgoCEHC {
		t.Errorf("level 7 should select cache-efficient hash-chain, got %v", Select(mid))
	}
	if Select(best) != matchfinder.AlgoBT {
		t.Errorf("level 12 should select binary-search-tree, got %v", Select(best))
	}
	if fast.CutValue >= mid.CutValue || mid.CutValue >= best.CutValue {
		t.Errorf("expected CutValue to increase with level: %d, %d, %d", fast.CutValue, mid.CutValue, best.CutValue)
	}
}
