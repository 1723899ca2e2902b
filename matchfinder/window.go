package matchfinder

import (
	"io"

	"go.uber.org/zap"
)

// kBlockMoveAlign is the alignment a relocate keeps the live slice's offset
// on, matching common frame-buffer alignment constants in compressors.
const kBlockMoveAlign = 128

// ByteSource is the upstream byte producer a Finder pulls from. It mirrors
// io.Reader but a zero-length read is not treated as an error: Read(dst)
// with len(dst) == 0 simply returns (0, nil).
type ByteSource interface {
	Read(dst []byte) (n int, err error)
}

// byteSourceFromReader adapts an io.Reader to ByteSource.
type byteSourceFromReader struct{ r io.Reader }

func (b byteSourceFromReader) Read(dst []byte) (int, error) { return b.r.Read(dst) }

// FromReader adapts a stdlib io.Reader into a ByteSource for Create.
func FromReader(r io.Reader) ByteSource { return byteSourceFromReader{r} }

// window owns the contiguous byte region described in the data model: base
// holds the sliding history plus look-ahead, pos is the logical cursor, and
// buffer (base[pos-dictLimit:]) is always the cursor-relative view.
type window struct {
	base      []byte
	blockSize uint32

	dictLimit uint32 // base[0] corresponds to logical position dictLimit
	pos       uint32 // logical cursor
	streamPos uint32 // logical position of the end of ingested data

	keepSizeBefore uint32
	keepSizeAfter  uint32

	src ByteSource
	err error

	log *zap.Logger
}

func newWindow(blockSize, keepBefore, keepAfter uint32, src ByteSource, log *zap.Logger) *window {
	return &window{
		base:           make([]byte, blockSize),
		blockSize:      blockSize,
		dictLimit:      0,
		pos:            1,
		streamPos:      1,
		keepSizeBefore: keepBefore,
		keepSizeAfter:  keepAfter,
		src:            src,
		log:            log,
	}
}

// bufOffset is the offset of the cursor within base: buffer = base[bufOffset:].
func (w *window) bufOffset() uint32 { return w.pos - w.dictLimit }

// availableBytes is the number of ingested-but-not-yet-consumed bytes.
func (w *window) availableBytes() uint32 { return w.streamPos - w.pos }

// cur returns the cursor-relative slice of look-ahead bytes.
func (w *window) cur() []byte {
	return w.base[w.bufOffset():w.streamPos-w.dictLimit]
}

// at returns the window bytes starting at absolute logical position p,
// truncated to the live data currently ingested.
func (w *window) at(p uint32) []byte {
	return w.base[p-w.dictLimit : w.streamPos-w.dictLimit]
}

// feed pulls from src until either more than keepSizeAfter bytes of
// look-ahead are buffered or the source is exhausted. A latched error from
// a previous call is returned immediately without touching src again.
func (w *window) feed() error {
	if w.err != nil {
		return w.err
	}
	for w.availableBytes() <= w.keepSizeAfter {
		dst := w.base[w.streamPos-w.dictLimit:]
		if len(dst) == 0 {
			// no room left; caller must moveIfNeeded before calling feed again
			return nil
		}
		n, err := w.src.Read(dst)
		w.streamPos += uint32(n)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			w.err = &ErrUpstreamRead{Err: err}
			return w.err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// moveIfNeeded relocates the live slice [pos-keepSizeBefore, streamPos) to
// the start of base once no more than keepSizeAfter bytes remain ahead of the
// cursor in the backing array, rounding the shift down to a multiple of
// kBlockMoveAlign when that still leaves a positive shift; a small
// keepSizeAfter can otherwise make a sub-alignment shift the only one
// available; moving that amount unaligned still frees space and keeps feed
// from stalling forever. It reports the number of positions added to
// dictLimit (0 if no move happened) so callers can keep derived offsets,
// such as a dictionary's cyclic buffer position, unaffected: dictLimit
// shifting does not change pos, so no caller-visible state needs updating,
// but hashIndex/dictionary cell contents, which store absolute positions,
// remain valid because positions are never renumbered by a move (only
// normalize renumbers positions).
func (w *window) moveIfNeeded() uint32 {
	off := w.bufOffset()
	if w.blockSize-off > w.keepSizeAfter {
		return 0
	}
	keepBefore := w.keepSizeBefore
	if keepBefore > off {
		keepBefore = off
	}
	moved := off - keepBefore
	if moved == 0 {
		return 0
	}
	if aligned := moved - moved%kBlockMoveAlign; aligned > 0 {
		moved = aligned
	}
	liveLen := w.blockSize - moved
	copy(w.base[:liveLen], w.base[moved:moved+liveLen])
	w.dictLimit += moved
	if w.log != nil {
		w.log.Debug("matchfinder: window relocated",
			zap.Uint32("moved", moved), zap.Uint32("dictLimit", w.dictLimit))
	}
	return moved
}
