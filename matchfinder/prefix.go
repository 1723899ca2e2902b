package matchfinder

import (
	"encoding/binary"
	"math/bits"
	"sync"
)

// Features reports the CPU capabilities detected for this process, used to
// pick the word-at-a-time common-prefix fast path. Detection happens once
// via detectFeaturesOnce and is exposed so callers (and tests) can see what
// was chosen without re-probing the CPU.
type Features struct {
	HasSSE2  bool
	HasSSE41 bool
	HasAVX2  bool
	HasNEON  bool

	// FastUnalignedWords is true when 64-bit unaligned loads are cheap
	// enough that comparing 8 bytes at a time beats a byte-by-byte loop:
	// true on amd64 and arm64, false elsewhere.
	FastUnalignedWords bool
}

var (
	detectFeaturesOnce sync.Once
	detectedFeatures   Features
)

// DetectFeatures returns the CPU features used by commonPrefixLen. Safe to
// call from multiple goroutines; detection runs exactly once per process.
func DetectFeatures() Features {
	detectFeaturesOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
	})
	return detectedFeatures
}

// commonPrefixLen returns the number of leading bytes a and b have in
// common, capped at limit. It is the primitive behind every byte comparison
// in the search engine: the hash-chain skip/full-compare steps and the
// binary-search-tree's byte-wise comparison from the current best length
// upward.
//
// The scalar loop is the reference implementation; property tests check the
// word-at-a-time fast path against it for byte-for-byte equivalence.
func commonPrefixLen(a, b []byte, limit int) int {
	if len(a) < limit {
		limit = len(a)
	}
	if len(b) < limit {
		limit = len(b)
	}
	if limit <= 0 {
		return 0
	}
	if DetectFeatures().FastUnalignedWords {
		return commonPrefixLenWords(a[:limit], b[:limit])
	}
	return commonPrefixLenScalar(a[:limit], b[:limit])
}

// commonPrefixLenScalar is the portable reference implementation.
func commonPrefixLenScalar(a, b []byte) int {
	n := 0
	for n < len(a) && a[n] == b[n] {
		n++
	}
	return n
}

// commonPrefixLenWords compares 8 bytes at a time using a 64-bit XOR and
// counts the matching prefix with bits.TrailingZeros64, falling back to the
// scalar loop for the final partial word. This is the TrailingZeros64-on-XOR
// idiom common to LZ-family byte matchers, pulled out into a standalone
// primitive instead of being inlined at every call site.
func commonPrefixLenWords(a, b []byte) int {
	n := 0
	limit := len(a)
	for limit-n >= 8 {
		x := binary.LittleEndian.Uint64(a[n:]) ^ binary.LittleEndian.Uint64(b[n:])
		if x != 0 {
			return n + bits.TrailingZeros64(x)>>3
		}
		n += 8
	}
	for n < limit && a[n] == b[n] {
		n++
	}
	return n
}
