package matchfinder

// cehcDict is the cache-efficient hash-chain dictionary store: a
// single array partitioned into fixed-size blocks. Cell 0 of a block holds
// headPos, the index of the most recently inserted slot; the remaining
// slotSize-1 cells are a circular buffer of recent positions.
type cehcDict struct {
	chain      []uint32
	numBuckets uint32
	slotSize   uint32
}

func newCEHCDict(numBuckets, slotSize uint32) *cehcDict {
	return &cehcDict{
		chain:      make([]uint32, numBuckets*slotSize),
		numBuckets: numBuckets,
		slotSize:   slotSize,
	}
}

// decCircular steps a slot index one position earlier within its block,
// wrapping from base+1 to base+slotSize-1.
func decCircular(idx, base, slotSize uint32) uint32 {
	if idx <= base+1 {
		return base + slotSize - 1
	}
	return idx - 1
}

func (d *cehcDict) insert(h, pos uint32) {
	b := h * d.slotSize
	headIdx := d.chain[b]
	if headIdx == 0 {
		headIdx = b + 1
	}
	headIdx = decCircular(headIdx, b, d.slotSize)
	d.chain[headIdx] = pos
	d.chain[b] = headIdx
}

// walk visits occupied slots starting at the bucket's headPos and stepping
// circularly forward (toward progressively older entries, since insert
// always fills the slot immediately before the current head), stopping at
// an empty cell, a full loop back to the start, or after cutValue steps
// (itself pre-capped to slotSize-1: the chain can hold no more entries than
// that). visit returns false to stop early (a good-enough match was found).
func (d *cehcDict) walk(h uint32, cutValue int, visit func(pos uint32) bool) {
	b := h * d.slotSize
	startIdx := d.chain[b]
	if startIdx == 0 {
		return
	}
	maxSteps := int(d.slotSize) - 1
	if cutValue < maxSteps {
		maxSteps = cutValue
	}
	idx := startIdx
	for i := 0; i < maxSteps; i++ {
		posVal := d.chain[idx]
		if posVal == 0 {
			return
		}
		if !visit(posVal) {
			return
		}
		idx++
		if idx >= b+d.slotSize {
			idx = b + 1
		}
		if idx == startIdx {
			return
		}
	}
}

func (d *cehcDict) getMatches(f *Finder, lenLimit int, out []Match) []Match {
	pos := f.win.pos
	cur := f.win.cur()

	var maxLen int
	out, maxLen = f.probeShortHashes(lenLimit, out)

	if lenLimit < f.hi.width {
		return out
	}

	h := f.hi.mainHash(cur)
	limOldest := oldestReachable(pos, f.cfg.HistorySize)

	d.walk(h, f.cfg.CutValue, func(candidate uint32) bool {
		if candidate < limOldest || candidate >= pos {
			return true
		}
		length := commonPrefixLen(cur, f.win.at(candidate), lenLimit)
		if length > maxLen {
			maxLen = length
			out = append(out, Match{Len: uint32(length), DistM1: pos - candidate - 1})
			if length >= lenLimit {
				return false
			}
		}
		return true
	})

	d.insert(h, pos)
	return out
}

// skip delegates to getMatches so the short-hash tables (head2/head3) get
// the same update a search would give them; only the caller-visible
// returned slice differs (discarded here), matching btDict.skip.
func (d *cehcDict) skip(f *Finder) {
	avail := int(f.win.availableBytes())
	if avail == 0 {
		return
	}
	lenLimit := avail
	if lenLimit > int(f.cfg.MatchMaxLen) {
		lenLimit = int(f.cfg.MatchMaxLen)
	}
	d.getMatches(f, lenLimit, nil)
}

// normalize leaves cell 0 of each block (headPos, a slot index rather than
// a stream position) untouched and only normalizes the chain cells.
func (d *cehcDict) normalize(sub uint32) {
	for b := uint32(0); b < d.numBuckets*d.slotSize; b += d.slotSize {
		for i := b + 1; i < b+d.slotSize; i++ {
			v := d.chain[i]
			if v == 0 {
				continue
			}
			if v < sub {
				d.chain[i] = 0
			} else {
				d.chain[i] = v - sub
			}
		}
	}
}
