// Package codec implements an LZ4-style block format on top of the
// matchfinder core: it turns a Finder's (length, distance) candidates into
// a token stream, and turns that token stream back into bytes. It makes
// all of the entropy/framing decisions the core itself deliberately leaves
// out.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/harriteja/matchcore/matchfinder"
	"github.com/harriteja/matchcore/profile"
)

// CompressionLevel is the 1..12 knob profile.ForLevel consumes.
type CompressionLevel int

const (
	MinLevel     CompressionLevel = 1
	MaxLevel     CompressionLevel = 12
	DefaultLevel CompressionLevel = 6
)

const (
	// MinMatch is the shortest back-reference the token format can encode.
	MinMatch = 4
	// maxOffset is LZ4's 16-bit distance ceiling; HistorySize is capped to
	// this so every emitted match fits the wire format's two-byte offset.
	maxOffset = 1<<16 - 1
)

var (
	ErrEmptySource       = errors.New("codec: empty source buffer")
	ErrTruncatedBlock    = errors.New("codec: truncated block")
	ErrInvalidOffset     = errors.New("codec: match offset out of range")
	ErrDestinationTooBig = errors.New("codec: destination buffer overflow")
)

// MaxCompressedSize returns the worst-case output size for an n-byte input,
// the conservative worst-case-expansion formula used across LZ4-family codecs.
func MaxCompressedSize(n int) int {
	return n + n/255 + 16
}

// CompressBlock compresses src at DefaultLevel, allocating dst if it is nil
// or too small.
func CompressBlock(src, dst []byte) ([]byte, error) {
	return CompressBlockLevel(src, dst, DefaultLevel)
}

// CompressBlockLevel compresses src into the LZ4-style token stream
// described in this package's doc comment, driving a matchfinder.Finder
// configured by profile.ForLevel(level, ...).
func CompressBlockLevel(src, dst []byte, level CompressionLevel) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmptySource
	}
	if level < MinLevel || level > MaxLevel {
		level = DefaultLevel
	}

	historySize := len(src)
	if historySize > maxOffset {
		historySize = maxOffset
	}
	cfg := profile.ForLevel(int(level), uint32(historySize), uint64(len(src)))
	cfg.MatchMaxLen = uint32(len(src))

	finder, err := matchfinder.Create(cfg, matchfinder.FromReader(bytes.NewReader(src)))
	if err != nil {
		return nil, fmt.Errorf("codec: create finder: %w", err)
	}
	if err := finder.Init(); err != nil {
		return nil, fmt.Errorf("codec: init finder: %w", err)
	}

	need := MaxCompressedSize(len(src))
	if cap(dst) < need {
		dst = make([]byte, 0, need)
	} else {
		dst = dst[:0]
	}

	var matches []matchfinder.Match
	literalStart := 0
	pos := 0

	for pos < len(src) {
		matches = matches[:0]
		matches, err = finder.GetMatches(matches)
		if err != nil {
			return nil, fmt.Errorf("codec: get matches at %d: %w", pos, err)
		}

		var best matchfinder.Match
		if len(matches) > 0 {
			best = matches[len(matches)-1]
		}
		if best.Len >= MinMatch {
			dst = appendSequence(dst, src[literalStart:pos], best)
			skip := int(best.Len) - 1
			if skip > 0 {
				if err := finder.Skip(skip); err != nil {
					return nil, fmt.Errorf("codec: skip at %d: %w", pos, err)
				}
			}
			pos += int(best.Len)
			literalStart = pos
			continue
		}
		pos++
	}

	if literalStart < len(src) {
		dst = appendFinalLiterals(dst, src[literalStart:])
	}
	return dst, nil
}

func appendSequence(dst []byte, literals []byte, m matchfinder.Match) []byte {
	litLen := len(literals)
	matchLen := int(m.Len) - MinMatch

	tokenLit, tokenMatch := litLen, matchLen
	if tokenLit > 15 {
		tokenLit = 15
	}
	if tokenMatch > 15 {
		tokenMatch = 15
	}
	dst = append(dst, byte(tokenLit<<4|tokenMatch))
	if litLen >= 15 {
		dst = appendLengthExtra(dst, litLen-15)
	}
	dst = append(dst, literals...)

	dist := m.Distance()
	dst = append(dst, byte(dist), byte(dist>>8))

	if matchLen >= 15 {
		dst = appendLengthExtra(dst, matchLen-15)
	}
	return dst
}

func appendFinalLiterals(dst []byte, literals []byte) []byte {
	tokenLit := len(literals)
	if tokenLit > 15 {
		tokenLit = 15
	}
	dst = append(dst, byte(tokenLit<<4))
	if len(literals) >= 15 {
		dst = appendLengthExtra(dst, len(literals)-15)
	}
	return append(dst, literals...)
}

func appendLengthExtra(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	return append(dst, byte(n))
}

// DecompressBlock reverses CompressBlockLevel's token stream. dstLen must
// be the exact decompressed size (the caller is expected to have recorded
// it out of band, as LZ4 frames do).
func DecompressBlock(src []byte, dstLen int) ([]byte, error) {
	dst := make([]byte, 0, dstLen)
	i := 0
	for i < len(src) {
		if i >= len(src) {
			return nil, ErrTruncatedBlock
		}
		token := src[i]
		i++

		litLen := int(token >> 4)
		if litLen == 15 {
			n, adv, err := readLengthExtra(src[i:])
			if err != nil {
				return nil, err
			}
			litLen += n
			i += adv
		}
		if i+litLen > len(src) {
			return nil, ErrTruncatedBlock
		}
		dst = append(dst, src[i:i+litLen]...)
		i += litLen

		if i == len(src) {
			break // final sequence carries no match
		}
		if i+2 > len(src) {
			return nil, ErrTruncatedBlock
		}
		dist := int(src[i]) | int(src[i+1])<<8
		i += 2
		if dist == 0 || dist > len(dst) {
			return nil, ErrInvalidOffset
		}

		matchLen := int(token & 0x0F)
		if matchLen == 15 {
			n, adv, err := readLengthExtra(src[i:])
			if err != nil {
				return nil, err
			}
			matchLen += n
			i += adv
		}
		matchLen += MinMatch

		start := len(dst) - dist
		for j := 0; j < matchLen; j++ {
			dst = append(dst, dst[start+j])
		}
	}
	if len(dst) != dstLen {
		return nil, fmt.Errorf("codec: decompressed %d bytes, want %d", len(dst), dstLen)
	}
	return dst, nil
}

func readLengthExtra(src []byte) (n, advanced int, err error) {
	for {
		if advanced >= len(src) {
			return 0, 0, ErrTruncatedBlock
		}
		b := src[advanced]
		n += int(b)
		advanced++
		if b != 255 {
			return n, advanced, nil
		}
	}
}
