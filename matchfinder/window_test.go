package matchfinder

import (
	"bytes"
	"testing"
)

// TestWindowRelocatesWithSmallKeepAfter guards against moveIfNeeded
// rounding a small available shift down to zero and stalling feed
// forever: with keepSizeAfter below kBlockMoveAlign, the only shift ever
// available can be smaller than the alignment, and that shift must still
// happen.
func TestWindowRelocatesWithSmallKeepAfter(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 600) // 6000 bytes, several blockSize-worths
	cfg := Config{HistorySize: 1024, MatchMaxLen: 16, NumHashBytes: 4, CutValue: 8}
	f := newTestFinder(t, cfg, data)

	consumed := 0
	for f.AvailableBytes() > 0 {
		if _, err := f.GetMatches(nil); err != nil {
			t.Fatalf("GetMatches at %d: %v", consumed, err)
		}
		consumed++
	}
	if consumed != len(data) {
		t.Fatalf("expected to consume all %d bytes, only consumed %d before the window appeared to run dry", len(data), consumed)
	}
}
