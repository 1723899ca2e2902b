package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// DefaultChunkSize is how large a block Writer accumulates before flushing.
const DefaultChunkSize = 256 * 1024

const streamMagic = 0x4d434658 // "MCFX"

var ErrInvalidStream = errors.New("codec: invalid stream magic")

// Writer is an io.WriteCloser that compresses to a simple block-framed
// stream: a magic number, then a sequence of (compressed length uint32,
// original length uint32, compressed bytes) records. It buffers up to
// DefaultChunkSize bytes per block behind a mutex-guarded, injectable writer.
type Writer struct {
	w          io.Writer
	level      CompressionLevel
	chunkSize  int
	buf        []byte
	wroteMagic bool
	closed     bool
	mu         sync.Mutex
	log        *zap.Logger
}

// NewWriter returns a Writer at DefaultLevel with DefaultChunkSize blocks.
func NewWriter(w io.Writer) *Writer {
	return NewWriterLevel(w, DefaultLevel)
}

// NewWriterLevel returns a Writer at the given level.
func NewWriterLevel(w io.Writer, level CompressionLevel) *Writer {
	return &Writer{w: w, level: level, chunkSize: DefaultChunkSize, log: zap.NewNop()}
}

// SetLogger installs a structured logger for block-flush diagnostics.
func (wr *Writer) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	wr.log = log
}

func (wr *Writer) Write(p []byte) (int, error) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.closed {
		return 0, errors.New("codec: write to closed Writer")
	}

	total := len(p)
	for len(p) > 0 {
		room := wr.chunkSize - len(wr.buf)
		n := len(p)
		if n > room {
			n = room
		}
		wr.buf = append(wr.buf, p[:n]...)
		p = p[n:]
		if len(wr.buf) >= wr.chunkSize {
			if err := wr.flushLocked(); err != nil {
				return total - len(p), err
			}
		}
	}
	return total, nil
}

func (wr *Writer) flushLocked() error {
	if len(wr.buf) == 0 {
		return nil
	}
	if !wr.wroteMagic {
		var hdr [4]byte
		binary.LittleEndian.PutUint32(hdr[:], streamMagic)
		if _, err := wr.w.Write(hdr[:]); err != nil {
			return fmt.Errorf("codec: write stream header: %w", err)
		}
		wr.wroteMagic = true
	}

	compressed, err := CompressBlockLevel(wr.buf, nil, wr.level)
	if err != nil {
		return fmt.Errorf("codec: compress block: %w", err)
	}

	var lens [8]byte
	binary.LittleEndian.PutUint32(lens[0:4], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(lens[4:8], uint32(len(wr.buf)))
	if _, err := wr.w.Write(lens[:]); err != nil {
		return fmt.Errorf("codec: write block header: %w", err)
	}
	if _, err := wr.w.Write(compressed); err != nil {
		return fmt.Errorf("codec: write block: %w", err)
	}

	wr.log.Debug("codec: flushed block",
		zap.Int("original", len(wr.buf)), zap.Int("compressed", len(compressed)))
	wr.buf = wr.buf[:0]
	return nil
}

// Flush forces any buffered bytes out as a block, even if smaller than
// DefaultChunkSize.
func (wr *Writer) Flush() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return wr.flushLocked()
}

// Close flushes any remaining buffered bytes. It does not close the
// underlying io.Writer.
func (wr *Writer) Close() error {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.closed {
		return nil
	}
	wr.closed = true
	return wr.flushLocked()
}

// Reader is an io.Reader that decompresses a stream written by Writer.
type Reader struct {
	r          io.Reader
	readMagic  bool
	current    []byte
	currentOff int
	mu         sync.Mutex
	log        *zap.Logger
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, log: zap.NewNop()}
}

// SetLogger installs a structured logger for block-fill diagnostics.
func (rd *Reader) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	rd.log = log
}

func (rd *Reader) Read(p []byte) (int, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	if rd.currentOff >= len(rd.current) {
		if err := rd.fillLocked(); err != nil {
			return 0, err
		}
	}
	n := copy(p, rd.current[rd.currentOff:])
	rd.currentOff += n
	return n, nil
}

func (rd *Reader) fillLocked() error {
	if !rd.readMagic {
		var hdr [4]byte
		if _, err := io.ReadFull(rd.r, hdr[:]); err != nil {
			return err
		}
		if binary.LittleEndian.Uint32(hdr[:]) != streamMagic {
			return ErrInvalidStream
		}
		rd.readMagic = true
	}

	var lens [8]byte
	if _, err := io.ReadFull(rd.r, lens[:]); err != nil {
		return err
	}
	compressedLen := binary.LittleEndian.Uint32(lens[0:4])
	originalLen := binary.LittleEndian.Uint32(lens[4:8])

	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(rd.r, compressed); err != nil {
		return fmt.Errorf("codec: read block: %w", err)
	}

	original, err := DecompressBlock(compressed, int(originalLen))
	if err != nil {
		return fmt.Errorf("codec: decompress block: %w", err)
	}

	rd.log.Debug("codec: filled block",
		zap.Int("compressed", int(compressedLen)), zap.Int("original", int(originalLen)))
	rd.current = original
	rd.currentOff = 0
	return nil
}
