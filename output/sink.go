package output

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// Sink is the writer chain between the delimited formatter and the
// destination: text encoding first, then compression.
type Sink struct {
	io.Writer
	encoder    io.WriteCloser
	compressor io.WriteCloser
}

// NewSink builds the chain on top of dst. Closing the Sink flushes the
// chain but leaves dst open.
func NewSink(dst io.Writer, codec Codec, enc Encoding) (*Sink, error) {
	compressor, err := codec.NewWriter(dst)
	if err != nil {
		return nil, err
	}
	encoder := enc.NewWriter(&writeErrWrapper{w: compressor})

	return &Sink{
		Writer:     encoder,
		encoder:    encoder,
		compressor: compressor,
	}, nil
}

// Close flushes the encoder and then the compressor, reporting every
// failure.
func (s *Sink) Close() error {
	var err error
	err = multierr.Append(err, s.encoder.Close())
	if cerr := s.compressor.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %w", ErrWrite, cerr))
	}
	return err
}

// writeErrWrapper marks failures of the destination side with ErrWrite.
type writeErrWrapper struct {
	w io.Writer
}

func (w *writeErrWrapper) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return n, nil
}
