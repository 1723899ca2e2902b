package matchfinder

import (
	"math"

	"go.uber.org/zap"
)

// defaultNormalizeThreshold is how close streamPos must climb to the uint32
// ceiling before maybeNormalize renumbers every stored position. Kept a
// large margin below math.MaxUint32 so a single feed() burst can't overflow
// between the threshold check and the renumber itself.
const defaultNormalizeThreshold = math.MaxUint32 - (1 << 24)

// maybeNormalize renumbers pos, streamPos, dictLimit, and every table and
// dictionary cell once streamPos has crossed normalizeThreshold. The
// subtracted amount is rounded down to a multiple of cyclicBufferSize so
// that ringIndex(p), computed as a plain p % cyclicBufferSize, keeps mapping
// every already-inserted position to the same physical ring slot it had
// before the renumber — normalize only ever changes the values stored in a
// slot, never which slot a position belongs to.
func (f *Finder) maybeNormalize() {
	if f.win.streamPos < f.normalizeThreshold {
		return
	}
	if f.win.pos <= f.cfg.HistorySize+1 {
		return
	}
	sub := f.win.pos - f.cfg.HistorySize - 1
	sub -= sub % f.cyclicBufferSize
	if sub == 0 {
		return
	}

	f.win.pos -= sub
	f.win.streamPos -= sub
	f.win.dictLimit -= sub
	f.hi.normalize(sub)
	f.m.normalize(sub)

	if f.metrics != nil {
		f.metrics.normalizerTriggers.Inc()
	}
	f.log.Debug("matchfinder: normalized positions", zap.Uint32("sub", sub))
}
