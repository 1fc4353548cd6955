package output

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{"", UTF8},
		{"UTF-8", UTF8},
		{"utf8", UTF8},
		{"ascii", ASCII},
		{"US-ASCII", ASCII},
		{"latin1", Latin1},
		{"ISO-8859-1", Latin1},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func encode(e Encoding, s string) ([]byte, error) {
	var buf bytes.Buffer
	w := e.NewWriter(&buf)
	_, err := io.WriteString(w, s)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return buf.Bytes(), err
}

func TestEncoding_UTF8PassesThrough(t *testing.T) {
	got, err := encode(UTF8, "héllo €")
	require.NoError(t, err)
	assert.Equal(t, "héllo €", string(got))
}

func TestEncoding_ASCII(t *testing.T) {
	got, err := encode(ASCII, "plain,text\n")
	require.NoError(t, err)
	assert.Equal(t, "plain,text\n", string(got))

	got, err = encode(ASCII, "ok,héllo\n")
	assert.ErrorIs(t, err, ErrUnrepresentable)
	assert.Equal(t, "ok,h", string(got))
}

func TestEncoding_Latin1(t *testing.T) {
	got, err := encode(Latin1, "café\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xe9, '\n'}, got)

	decoded, err := io.ReadAll(Latin1.NewReader(bytes.NewReader(got)))
	require.NoError(t, err)
	assert.Equal(t, "café\n", string(decoded))

	_, err = encode(Latin1, "price: 5€")
	assert.ErrorIs(t, err, ErrUnrepresentable)
}

func TestEncoding_Latin1DestinationError(t *testing.T) {
	w := Latin1.NewWriter(failingWriter{})
	_, err := io.WriteString(w, "café")
	if err == nil {
		err = w.Close()
	}
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnrepresentable), "destination failure reported as encoding failure: %v", err)
}
