package codec

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
)

func compressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	for i := 0; i < size; i += len(pattern) {
		copy(data[i:], pattern)
	}
	return data
}

func randomData(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return data
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	sizes := []int{1, 4, 17, 1024, 64 * 1024}
	for _, size := range sizes {
		for _, level := range []CompressionLevel{1, 6, 12} {
			t.Run("", func(t *testing.T) {
				src := compressibleData(size)
				compressed, err := CompressBlockLevel(src, nil, level)
				if err != nil {
					t.Fatalf("CompressBlockLevel(size=%d, level=%d): %v", size, level, err)
				}
				decompressed, err := DecompressBlock(compressed, len(src))
				if err != nil {
					t.Fatalf("DecompressBlock(size=%d, level=%d): %v", size, level, err)
				}
				if !bytes.Equal(src, decompressed) {
					t.Fatalf("round trip mismatch at size=%d level=%d", size, level)
				}
			})
		}
	}
}

func TestCompressDecompressRandomData(t *testing.T) {
	src := randomData(t, 8192)
	compressed, err := CompressBlock(src, nil)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	decompressed, err := DecompressBlock(compressed, len(src))
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if !bytes.Equal(src, decompressed) {
		t.Fatal("round trip mismatch on random data")
	}
}

func TestCompressBlockRejectsEmptySource(t *testing.T) {
	if _, err := CompressBlock(nil, nil); err != ErrEmptySource {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestCompressShrinksHighlyCompressibleData(t *testing.T) {
	src := []byte(strings.Repeat("x", 1<<16))
	compressed, err := CompressBlock(src, nil)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if len(compressed) >= len(src) {
		t.Fatalf("expected compression on a trivial run, got %d >= %d", len(compressed), len(src))
	}
}

func TestDecompressRejectsBadOffset(t *testing.T) {
	// Token requesting a match with distance 256 (0x0100) but no preceding bytes.
	bad := []byte{0x01, 0x00, 0x01, 0x00}
	if _, err := DecompressBlock(bad, 5); err != ErrInvalidOffset {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
}
