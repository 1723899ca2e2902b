package matchfinder

import (
	"bytes"
	"strings"
	"testing"
)

// TestNormalizeRoundTrip lowers normalizeThreshold far below its production
// default so a short input triggers the renumber, then checks that at least
// one normalize happened and that the search is still reporting matches at
// the end of the input, after the normalize boundary.
func TestNormalizeRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox ", 40))
	f := newTestFinder(t, Config{NumHashBytes: 4, HistorySize: 256, CutValue: 64}, data)
	f.normalizeThreshold = f.cfg.HistorySize + 32

	var triggered bool
	var lastGoodMatch Match
	for i := 0; i < len(data); i++ {
		posBefore := f.win.pos
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		if f.win.pos < posBefore {
			triggered = true
		}
		if len(matches) > 0 {
			lastGoodMatch = matches[len(matches)-1]
		}
	}
	if !triggered {
		t.Fatal("expected the lowered threshold to trigger at least one normalize")
	}
	if lastGoodMatch.Len == 0 {
		t.Fatal("expected matches to keep being found across a normalize boundary")
	}
}

func TestRingIndexStableAcrossNormalize(t *testing.T) {
	f := newTestFinder(t, Config{NumHashBytes: 4, HistorySize: 64}, bytes.Repeat([]byte{1}, 8))
	before := f.ringIndex(10000)
	after := f.ringIndex(10000 + 3*f.cyclicBufferSize)
	if before != after {
		t.Fatalf("ring index for the same physical slot changed across a cyclicBufferSize-multiple shift: %d != %d", before, after)
	}
}
