package matchfinder

// hcDict is the hash-chain dictionary store: a single-linked list
// of same-bucket positions overlaid on a ring buffer. son[ringIndex(p)]
// holds the position that hashed into the same bucket immediately before p
// did.
type hcDict struct {
	son              []uint32
	cyclicBufferSize uint32
}

func newHCDict(cyclicBufferSize uint32) *hcDict {
	return &hcDict{
		son:              make([]uint32, cyclicBufferSize),
		cyclicBufferSize: cyclicBufferSize,
	}
}

func (d *hcDict) insert(f *Finder, pos, h uint32) {
	d.son[f.ringIndex(pos)] = f.hi.head[h]
	f.hi.head[h] = pos
}

// getMatches walks the main-width chain from head[h], reporting improving
// (length, distance-1) pairs, then inserts pos. Order matters: the walk
// must read head[h] before insertion overwrites it with pos itself.
func (d *hcDict) getMatches(f *Finder, lenLimit int, out []Match) []Match {
	pos := f.win.pos
	cur := f.win.cur()

	var maxLen int
	out, maxLen = f.probeShortHashes(lenLimit, out)

	if lenLimit < f.hi.width {
		return out
	}
	h := f.hi.mainHash(cur)
	candidate := f.hi.head[h]
	limOldest := oldestReachable(pos, f.cfg.HistorySize)
	runLen := detectRunPattern(cur, int(f.win.availableBytes()))

	cutValue := f.cfg.CutValue
	for candidate != 0 && candidate >= limOldest && candidate < pos && cutValue > 0 {
		cutValue--

		candBytes := f.win.at(candidate)
		length := commonPrefixLen(cur, candBytes, lenLimit)
		if length > maxLen {
			maxLen = length
			out = append(out, Match{Len: uint32(length), DistM1: pos - candidate - 1})
			if length >= lenLimit {
				break
			}
		}
		next := d.son[f.ringIndex(candidate)]
		// Repeated-pattern short-circuit: a run of adjacent-offset
		// candidates inside a detected single-byte run can only ever
		// reproduce the same match, so step through them without comparing
		// each one; every link stepped over still costs one unit of
		// cutValue.
		for runLen > 0 && next != 0 && next >= limOldest && candidate-next == 1 && cutValue > 0 {
			candidate = next
			next = d.son[f.ringIndex(candidate)]
			cutValue--
		}
		candidate = next
	}

	d.insert(f, pos, h)
	return out
}

// skip delegates to getMatches so the short-hash tables (head2/head3) get
// the same update a search would give them; only the caller-visible
// returned slice differs (discarded here), matching btDict.skip.
func (d *hcDict) skip(f *Finder) {
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

func (d *hcDict) normalize(sub uint32) {
	normalizeSlice(d.son, sub)
}

// oldestReachable returns the oldest position still within historySize of
// pos, per the invariant "p reachable from the current bucket only while
// pos - p <= historySize".
func oldestReachable(pos, historySize uint32) uint32 {
	if pos <= historySize {
		return 0
	}
	return pos - historySize
}
