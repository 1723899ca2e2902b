package matchfinder

import "math/bits"

// crcPoly is the Sarwate reflected CRC-32 polynomial mandated by the hash
// formulas: 0xEDB88320, the same constant zlib/IEEE CRC-32 uses. We build
// our own 256-entry table (rather than importing hash/crc32's) because the
// hash-index layer only ever needs crcTable[byte] lookups, never a running
// CRC accumulator or Write/Sum API — pulling in hash/crc32 for a single
// table lookup would be the wrong-shaped dependency for the job.
const crcPoly = 0xEDB88320

var crcTable = buildCRCTable()

func buildCRCTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

const (
	kHash2Size = 1 << 10
	kHash3Size = 1 << 16

	// kHashMaskFloorWide is the floor applied to hashMask when the main
	// hash width exceeds 2 bytes, so a small historySize/expectedDataSize
	// hint cannot collapse the main table into too few buckets.
	kHashMaskFloorWide = (1 << 16) - 1
	// kHashMaskFloorWidest is the floor applied when width is 5.
	kHashMaskFloorWidest = (256 << 10) - 1
)

// computeHashMask picks the largest (2^k)-1 not exceeding a ceiling derived
// from min(historySize, expectedDataSize), then floors it per width so wider
// hashes always get a reasonably large table.
func computeHashMask(width int, historySize uint32, expectedDataSize uint64) uint32 {
	lim := uint64(historySize)
	if expectedDataSize != 0 && expectedDataSize < lim {
		lim = expectedDataSize
	}
	if lim < 1 {
		lim = 1
	}
	n := bits.Len64(lim)
	mask := uint32(1)<<uint(n) - 1

	if width > 2 && mask < kHashMaskFloorWide {
		mask = kHashMaskFloorWide
	}
	if width >= 5 && mask < kHashMaskFloorWidest {
		mask = kHashMaskFloorWidest
	}
	return mask
}

// hashIndex is the hash-index layer: a pure function of the bytes at the
// cursor, backed by per-width head tables. head2/head3 are the secondary
// short-match tables used by the short-hash probe; head is the main
// width's table.
type hashIndex struct {
	width int
	mask  uint32

	head2 []uint32 // populated when width >= 3
	head3 []uint32 // populated when width >= 4
	head  []uint32 // len == mask+1
}

func newHashIndex(width int, historySize uint32, expectedDataSize uint64) *hashIndex {
	mask := computeHashMask(width, historySize, expectedDataSize)
	hi := &hashIndex{
		width: width,
		mask:  mask,
		head:  make([]uint32, uint64(mask)+1),
	}
	if width >= 3 {
		hi.head2 = make([]uint32, kHash2Size)
	}
	if width >= 4 {
		hi.head3 = make([]uint32, kHash3Size)
	}
	return hi
}

func hash2Value(c0, c1 byte) uint32 {
	return (crcTable[c0] ^ uint32(c1)) & (kHash2Size - 1)
}

func hash3Value(c0, c1, c2 byte) uint32 {
	return (crcTable[c0] ^ uint32(c1) ^ uint32(c2)<<8) & (kHash3Size - 1)
}

// mainHash computes the main-width hash over cur, which must have at least
// width bytes available.
func (hi *hashIndex) mainHash(cur []byte) uint32 {
	switch hi.width {
	case 2:
		return (uint32(cur[0]) | uint32(cur[1])<<8) & hi.mask
	case 3:
		return (crcTable[cur[0]] ^ uint32(cur[1]) ^ uint32(cur[2])<<8) & hi.mask
	case 4:
		return (crcTable[cur[0]] ^ uint32(cur[1]) ^ uint32(cur[2])<<8 ^ crcTable[cur[3]]<<5) & hi.mask
	case 5:
		return (crcTable[cur[0]] ^ uint32(cur[1]) ^ uint32(cur[2])<<8 ^ crcTable[cur[3]]<<5 ^ crcTable[cur[4]]<<10) & hi.mask
	default:
		panic("matchfinder: invalid hash width")
	}
}

// normalize subtracts sub from every stored position >= sub, and resets
// cells below sub (the reachable-window floor) to the empty sentinel.
func (hi *hashIndex) normalize(sub uint32) {
	normalizeSlice(hi.head, sub)
	normalizeSlice(hi.head2, sub)
	normalizeSlice(hi.head3, sub)
}

func normalizeSlice(s []uint32, sub uint32) {
	for i, v := range s {
		if v == 0 {
			continue
		}
		if v < sub {
			s[i] = 0
		} else {
			s[i] = v - sub
		}
	}
}
