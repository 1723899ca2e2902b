package matchfinder

import "encoding/binary"

// Match is a single (length, distance) back-reference candidate, using a
// wire-friendly distance-minus-one encoding so a caller can pack distances
// into 16 bits for LZ4-style codecs.
type Match struct {
	Len    uint32
	DistM1 uint32 // distance - 1; actual distance is DistM1+1
}

// Distance returns the actual back-reference distance.
func (m Match) Distance() uint32 { return m.DistM1 + 1 }

// AppendBinary appends the wire layout of matches (two little-endian uint32
// words per pair: length then distance-1) to dst. This layout exists only
// for callers that want to persist or transmit raw candidates (e.g.
// cmd/mfctl's --dump flag); the core itself never needs it.
func AppendBinary(dst []byte, matches []Match) []byte {
	var tmp [8]byte
	for _, m := range matches {
		binary.LittleEndian.PutUint32(tmp[0:4], m.Len)
		binary.LittleEndian.PutUint32(tmp[4:8], m.DistM1)
		dst = append(dst, tmp[:]...)
	}
	return dst
}

// matcher is the per-algorithm dictionary store + search engine binding: a
// Finder selects exactly one implementation at Create time and never
// branches between them again on the hot path.
type matcher interface {
	// getMatches searches the dictionary for matches at the current cursor
	// (f.win.pos), inserting the cursor position as a side effect, and
	// appends any improving (length, distance-1) pairs to out in strictly
	// increasing length order.
	getMatches(f *Finder, lenLimit int, out []Match) []Match

	// skip inserts the current cursor position into the dictionary without
	// searching for or reporting matches.
	skip(f *Finder)

	// normalize subtracts sub from every stored position >= sub and resets
	// cells below sub to the empty sentinel.
	normalize(sub uint32)
}
