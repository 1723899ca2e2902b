package matchfinder

import (
	"bytes"
	"strings"
	"testing"
)

func newTestFinder(t *testing.T, cfg Config, data []byte) *Finder {
	t.Helper()
	if cfg.HistorySize == 0 {
		cfg.HistorySize = 1 << 16
	}
	if cfg.MatchMaxLen == 0 {
		cfg.MatchMaxLen = 1 << 16
	}
	if cfg.NumHashBytes == 0 {
		cfg.NumHashBytes = 4
	}
	if cfg.CutValue == 0 {
		cfg.CutValue = 64
	}
	f, err := Create(cfg, FromReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return f
}

func TestHashChainRepeatedByte(t *testing.T) {
	data := []byte(strings.Repeat("a", 64))
	f := newTestFinder(t, Config{NumHashBytes: 2}, data)

	var best Match
	for i := 0; i < len(data); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		if len(matches) > 0 {
			best = matches[len(matches)-1]
		}
	}
	if best.Len == 0 {
		t.Fatal("expected at least one match in a run of repeated bytes")
	}
	if best.Distance() != 1 {
		t.Errorf("expected closest-possible distance 1 for a byte run, got %d", best.Distance())
	}
}

func TestHashChainPeriodicPattern(t *testing.T) {
	data := []byte(strings.Repeat("abc", 100))
	f := newTestFinder(t, Config{NumHashBytes: 3}, data)

	var sawLenAtLeast3 bool
	for i := 0; i < len(data); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		for _, m := range matches {
			if m.Len >= 3 {
				sawLenAtLeast3 = true
			}
		}
	}
	if !sawLenAtLeast3 {
		t.Fatal("expected a length-3+ match in a 3-byte periodic pattern")
	}
}

func TestBinarySearchTreeFindsPlantedMatch(t *testing.T) {
	plant := []byte("the quick brown fox jumps over the lazy dog")
	data := append(append([]byte{}, plant...), append([]byte("--filler--"), plant...)...)

	f := newTestFinder(t, Config{NumHashBytes: 4, BTMode: true}, data)

	var best Match
	for i := 0; i < len(data); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		if len(matches) > 0 {
			if m := matches[len(matches)-1]; m.Len > best.Len {
				best = m
			}
		}
	}
	if best.Len < uint32(len(plant)) {
		t.Fatalf("expected to recover the planted %d-byte repeat, longest found was %d", len(plant), best.Len)
	}
}

func TestNoMatchesInDistinctBytes(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	f := newTestFinder(t, Config{NumHashBytes: 4}, data)

	for i := 0; i < len(data); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		if len(matches) != 0 {
			t.Fatalf("position %d: expected no matches among 64 distinct bytes, got %v", i, matches)
		}
	}
}

func TestCacheEfficientSearchBoundedWalk(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF, 0x01}, 200)
	f := newTestFinder(t, Config{NumHashBytes: 4, CacheEfficientSearch: true, CutValue: 1000}, data)

	for i := 0; i < len(data); i++ {
		if _, err := f.GetMatches(nil); err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
	}

	cehc, ok := f.m.(*cehcDict)
	if !ok {
		t.Fatalf("expected a cehcDict, got %T", f.m)
	}
	if cehc.slotSize != 8 {
		t.Fatalf("expected default slot size 8 at Level 0, got %d", cehc.slotSize)
	}

	// 200 positions share the bucket of data[0:4]; the walk must still stop
	// after slotSize-1 cells despite the much larger CutValue.
	visited := 0
	cehc.walk(f.hi.mainHash(data[:4]), f.cfg.CutValue, func(uint32) bool {
		visited++
		return true
	})
	if visited != int(cehc.slotSize)-1 {
		t.Fatalf("expected the walk to visit %d cells, visited %d", cehc.slotSize-1, visited)
	}
}

func TestSkipAdvancesWithoutMatches(t *testing.T) {
	data := []byte(strings.Repeat("xyz", 50))
	f := newTestFinder(t, Config{NumHashBytes: 3}, data)

	if err := f.Skip(10); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	matches, err := f.GetMatches(nil)
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected the dictionary primed by Skip to still yield a match")
	}
}

func TestLoadDictionarySeedsBackReferences(t *testing.T) {
	dict := []byte("the quick brown fox jumps over the lazy dog")
	input := []byte("the quick brown fox jumps over the lazy dog")

	cfg := Config{HistorySize: 1 << 16, MatchMaxLen: 1 << 16, NumHashBytes: 4, CutValue: 64}
	f, err := Create(cfg, FromReader(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.LoadDictionary(dict); err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var best Match
	for i := 0; i < len(input); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		if len(matches) > 0 {
			if m := matches[len(matches)-1]; m.Len > best.Len {
				best = m
			}
		}
	}
	if best.Len < uint32(len(dict)) {
		t.Fatalf("expected the primed dictionary to yield a full-length match at position 0, got %d", best.Len)
	}
}

func TestLoadDictionaryRejectedAfterMatchingBegins(t *testing.T) {
	f := newTestFinder(t, Config{}, []byte("abcdef"))
	if err := f.LoadDictionary([]byte("x")); err != ErrDictionaryTooLate {
		t.Fatalf("expected ErrDictionaryTooLate, got %v", err)
	}
}

func TestPositionsStartAtOne(t *testing.T) {
	f := newTestFinder(t, Config{}, []byte("ab"))
	if f.win.pos != 1 {
		t.Fatalf("expected initial pos 1, got %d", f.win.pos)
	}
}

func TestCreateRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"bad hash width", Config{HistorySize: 1024, MatchMaxLen: 16, CutValue: 8, NumHashBytes: 1}},
		{"zero cut value", Config{HistorySize: 1024, MatchMaxLen: 16, CutValue: 0, NumHashBytes: 4}},
		{"zero match max len", Config{HistorySize: 1024, MatchMaxLen: 0, CutValue: 8, NumHashBytes: 4}},
		{"zero history size", Config{HistorySize: 0, MatchMaxLen: 16, CutValue: 8, NumHashBytes: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Create(tc.cfg, FromReader(bytes.NewReader(nil))); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestSmallHistoryWidth2DoesNotPanic(t *testing.T) {
	data := bytes.Repeat([]byte("ab"), 40)
	cfg := Config{HistorySize: 100, MatchMaxLen: 50, NumHashBytes: 2, CutValue: 8}
	f, err := Create(cfg, FromReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < len(data); i++ {
		if _, err := f.GetMatches(nil); err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
	}
	if err := f.Skip(1); err != nil {
		t.Fatalf("Skip: %v", err)
	}
}

func TestMatchLengthsAreMonotonic(t *testing.T) {
	data := []byte(strings.Repeat("mississippi river ", 20))
	f := newTestFinder(t, Config{NumHashBytes: 4}, data)

	for i := 0; i < len(data); i++ {
		matches, err := f.GetMatches(nil)
		if err != nil {
			t.Fatalf("GetMatches at %d: %v", i, err)
		}
		for j := 1; j < len(matches); j++ {
			if matches[j].Len <= matches[j-1].Len {
				t.Fatalf("position %d: matches not strictly increasing in length: %v", i, matches)
			}
		}
	}
}
