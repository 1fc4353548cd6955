package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnrepresentable is returned when output text contains a character the
// selected encoding cannot represent.
var ErrUnrepresentable = errors.New("character not representable in output encoding")

// Encoding is the character encoding of the output text.
type Encoding string

// Supported output encodings.
const (
	UTF8   Encoding = "utf-8"
	ASCII  Encoding = "ascii"
	Latin1 Encoding = "latin1"
)

// ParseEncoding accepts the usual spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "ascii", "us-ascii":
		return ASCII, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (want utf-8, ascii or latin1)", s)
	}
}

// NewWriter wraps w so UTF-8 text written to it is emitted in e. The
// returned closer flushes pending bytes but does not close w.
func (e Encoding) NewWriter(w io.Writer) io.WriteCloser {
	switch e {
	case ASCII:
		return &asciiWriter{w: w}
	case Latin1:
		return newLatin1Writer(w)
	default:
		return nopWriteCloser{w}
	}
}

// NewReader decodes text in e back to UTF-8.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	if e == Latin1 {
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	return r
}

type asciiWriter struct {
	w      io.Writer
	offset int64
}

func (a *asciiWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		if b >= 0x80 {
			n, err := a.w.Write(p[:i])
			a.offset += int64(n)
			if err != nil {
				return n, err
			}
			return n, fmt.Errorf("%w: ascii, byte 0x%02x at offset %d", ErrUnrepresentable, b, a.offset)
		}
	}
	n, err := a.w.Write(p)
	a.offset += int64(n)
	return n, err
}

func (a *asciiWriter) Close() error {
	return nil
}

// latin1Writer tells encoder failures apart from failures of the
// destination, which are passed through untouched.
type latin1Writer struct {
	w    *transform.Writer
	dest *errWriter
}

func newLatin1Writer(w io.Writer) *latin1Writer {
	dest := &errWriter{w: w}
	return &latin1Writer{
		w:    transform.NewWriter(dest, charmap.ISO8859_1.NewEncoder()),
		dest: dest,
	}
}

func (l *latin1Writer) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	return n, l.classify(err)
}

func (l *latin1Writer) Close() error {
	return l.classify(l.w.Close())
}

func (l *latin1Writer) classify(err error) error {
	if err == nil || (l.dest.err != nil && errors.Is(err, l.dest.err)) {
		return err
	}
	return fmt.Errorf("%w: latin1: %w", ErrUnrepresentable, err)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
