package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the algorithm applied to a section payload.
type Compression uint8

const (
	// CompressionNone stores payloads as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd (better ratio).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("cache: unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// compress returns the stored payload and the compression actually used.
// Payloads that do not shrink below 90% are stored uncompressed.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZstd:
		enc := getZstdEncoder()
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("cache: unknown compression %d", c)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(stored []byte, c Compression, rawLen uint64) ([]byte, error) {
	switch c {
	case CompressionNone:
		if uint64(len(stored)) != rawLen {
			return nil, errors.New("stored length differs from raw length")
		}
		return stored, nil
	case CompressionLZ4:
		// LZ4 cannot expand input by more than a factor of 255.
		if rawLen > uint64(len(stored))*255+16 {
			return nil, errors.New("implausible raw length")
		}
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, err
		}
		if uint64(n) != rawLen {
			return nil, errors.New("decompressed size mismatch")
		}
		return out, nil
	case CompressionZstd:
		return decompressZstd(stored, rawLen)
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}

// decompressZstd never produces more than rawLen bytes: the frame header
// must agree with rawLen and the stream is read into a buffer of that size.
func decompressZstd(stored []byte, rawLen uint64) ([]byte, error) {
	var h zstd.Header
	if err := h.Decode(stored); err != nil {
		return nil, err
	}
	if h.HasFCS && h.FrameContentSize != rawLen {
		return nil, errors.New("frame content size differs from raw length")
	}

	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(stored)); err != nil {
		return nil, err
	}
	out := make([]byte, rawLen)
	if _, err := io.ReadFull(dec, out); err != nil {
		return nil, fmt.Errorf("decompressed size mismatch: %w", err)
	}
	var extra [1]byte
	if n, _ := dec.Read(extra[:]); n != 0 {
		return nil, errors.New("decompressed size mismatch")
	}
	return out, nil
}
