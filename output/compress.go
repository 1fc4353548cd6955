package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is an output compression codec.
type Codec string

// Supported codecs. CodecAuto picks one from the output file suffix.
const (
	CodecAuto   Codec = "auto"
	CodecNone   Codec = "none"
	CodecGzip   Codec = "gzip"
	CodecZstd   Codec = "zstd"
	CodecLZ4    Codec = "lz4"
	CodecBrotli Codec = "brotli"
)

var codecSuffixes = map[string]Codec{
	".gz":   CodecGzip,
	".gzip": CodecGzip,
	".zst":  CodecZstd,
	".zstd": CodecZstd,
	".lz4":  CodecLZ4,
	".br":   CodecBrotli,
}

// ParseCodec validates a codec name.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CodecAuto, nil
	case CodecAuto, CodecNone, CodecGzip, CodecZstd, CodecLZ4, CodecBrotli:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported compression %q (want auto, none, gzip, zstd, lz4 or brotli)", s)
	}
}

// Resolve turns CodecAuto into a concrete codec for path. An empty path
// (standard output) is never compressed automatically.
func (c Codec) Resolve(path string) Codec {
	if c != CodecAuto {
		return c
	}
	if path == "" {
		return CodecNone
	}
	if codec, ok := codecSuffixes[strings.ToLower(filepath.Ext(path))]; ok {
		return codec
	}
	return CodecNone
}

// NewWriter wraps w with the codec's compressor. Closing the returned writer
// flushes the compressed stream but does not close w.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		return zstd.NewWriter(w)
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecBrotli:
		return brotli.NewWriter(w), nil
	case CodecNone, CodecAuto, "":
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", string(c))
	}
}

// NewReader wraps r with the codec's decompressor.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case CodecNone, CodecAuto, "":
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", string(c))
	}
}
