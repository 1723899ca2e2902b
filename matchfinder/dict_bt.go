package matchfinder

// btDict is the binary-search-tree dictionary store. Each ring slot
// k owns two consecutive cells in son: son[2k] is the left child (smaller
// lexicographic prefix), son[2k+1] the right child (larger). Insert and
// search are fused: descending the tree to find matches simultaneously
// grafts the current position into it.
type btDict struct {
	son              []uint32
	cyclicBufferSize uint32
}

func newBTDict(cyclicBufferSize uint32) *btDict {
	return &btDict{
		son:              make([]uint32, 2*cyclicBufferSize),
		cyclicBufferSize: cyclicBufferSize,
	}
}

// getMatches performs the fused descend-and-insert walk. When called from
// skip, out is nil and the returned slice is discarded by the caller; the
// tree maintenance happens identically either way: same walk, but matches
// are not emitted and only the tree is maintained.
func (d *btDict) getMatches(f *Finder, lenLimit int, out []Match) []Match {
	pos := f.win.pos
	cur := f.win.cur()

	var maxLen int
	out, maxLen = f.probeShortHashes(lenLimit, out)

	if lenLimit < f.hi.width {
		return out
	}

	h := f.hi.mainHash(cur)
	limOldest := oldestReachable(pos, f.cfg.HistorySize)

	ringPos := f.ringIndex(pos)
	leftTarget := 2 * ringPos
	rightTarget := 2*ringPos + 1

	len0, len1 := 0, 0
	candidate := f.hi.head[h]
	f.hi.head[h] = pos
	cutValue := f.cfg.CutValue

	for candidate != 0 && candidate >= limOldest && cutValue > 0 {
		cutValue--

		candRing := f.ringIndex(candidate)
		candBytes := f.win.at(candidate)

		minLen := len0
		if len1 < minLen {
			minLen = len1
		}
		if minLen > lenLimit {
			minLen = lenLimit
		}
		length := minLen + commonPrefixLen(cur[minLen:], candBytes[minLen:], lenLimit-minLen)

		if length > maxLen {
			maxLen = length
			out = append(out, Match{Len: uint32(length), DistM1: pos - candidate - 1})
		}

		if length >= lenLimit || length >= len(candBytes) || length >= len(cur) {
			// Exact/boundary match: graft the candidate's existing
			// children directly as ours and stop descending.
			d.son[leftTarget] = d.son[candRing*2]
			d.son[rightTarget] = d.son[candRing*2+1]
			return out
		}

		if candBytes[length] < cur[length] {
			d.son[leftTarget] = candidate
			leftTarget = candRing*2 + 1
			len0 = length
			candidate = d.son[candRing*2+1]
		} else {
			d.son[rightTarget] = candidate
			rightTarget = candRing * 2
			len1 = length
			candidate = d.son[candRing*2]
		}
	}

	d.son[leftTarget] = 0
	d.son[rightTarget] = 0
	return out
}

func (d *btDict) skip(f *Finder) {
	avail := int(f.win.availableBytes())
	if avail < f.hi.width {
		return
	}
	lenLimit := avail
	if lenLimit > int(f.cfg.MatchMaxLen) {
		lenLimit = int(f.cfg.MatchMaxLen)
	}
	d.getMatches(f, lenLimit, nil)
}

func (d *btDict) normalize(sub uint32) {
	normalizeSlice(d.son, sub)
}
