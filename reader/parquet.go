package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ErrNotParquet is returned when the input bytes are not a readable parquet
// encoding (bad magic, truncated footer, corrupt metadata).
var ErrNotParquet = errors.New("not a valid parquet file")

// ErrNotRegular is returned when the input path names a directory or device.
var ErrNotRegular = errors.New("not a regular file")

// DefaultBatchSize is the number of rows pulled from the decoder at a time.
const DefaultBatchSize = 256

// Reader reads a parquet table and streams its rows.
//
// It keeps the OS file handle (nil when the table came from a stream) next
// to the parquet file handle so Close can release both.
type Reader struct {
	name    string
	file    *os.File
	pqFile  *parquet.File
	columns []Column
}

// NewReader opens the parquet file at path.
//
// The footer and schema are decoded immediately, so a file that is not a
// parquet encoding fails here, before any row is read.
//
// Example:
//
//	r, err := NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if !stat.Mode().IsRegular() {
		_ = file.Close()
		return nil, fmt.Errorf("'%s': %w", path, ErrNotRegular)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %v", ErrNotParquet, err)
	}

	return newReader(path, file, pqFile), nil
}

// NewReaderFrom reads a whole parquet table from a stream such as stdin.
//
// Parquet keeps its metadata in a footer, so the stream is buffered in
// memory before decoding. name is only used in messages.
func NewReaderFrom(r io.Reader, name string) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotParquet, name)
	}

	pqFile, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotParquet, err)
	}

	return newReader(name, nil, pqFile), nil
}

func newReader(name string, file *os.File, pqFile *parquet.File) *Reader {
	return &Reader{
		name:    name,
		file:    file,
		pqFile:  pqFile,
		columns: leafColumns(pqFile.Schema()),
	}
}

// Name returns the path or stream name the table was read from.
func (r *Reader) Name() string {
	return r.name
}

// Columns returns the leaf columns of the table in file order.
func (r *Reader) Columns() []Column {
	return r.columns
}

// NumRows returns the row count recorded in the file footer.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Rows starts a new pass over the table. Each call restarts from the first
// row; callers must Close the returned iterator.
func (r *Reader) Rows() *Rows {
	batch := make([]parquet.Row, DefaultBatchSize)
	return &Rows{
		reader: parquet.NewReader(r.pqFile),
		batch:  batch,
		values: make([][]parquet.Value, len(r.columns)),
	}
}

// Close releases the underlying file handle. It is safe to call Close
// multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Rows iterates over the rows of a table in input order.
//
// Values returned by Values are only valid until the next call to Next
// crosses a batch boundary; render them before advancing.
type Rows struct {
	reader *parquet.Reader
	batch  []parquet.Row
	n      int
	pos    int
	eof    bool
	err    error
	values [][]parquet.Value
}

// Next advances to the next row. It returns false at the end of the table
// or on error; check Err afterwards.
func (it *Rows) Next() bool {
	if it.err != nil {
		return false
	}

	if it.pos >= it.n {
		if it.eof {
			return false
		}
		n, err := it.reader.ReadRows(it.batch)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				it.err = fmt.Errorf("%w: failed to read row: %v", ErrNotParquet, err)
				return false
			}
			it.eof = true
		}
		if n == 0 {
			it.eof = true
			return false
		}
		it.n, it.pos = n, 0
	}

	row := it.batch[it.pos]
	it.pos++

	for i := range it.values {
		it.values[i] = it.values[i][:0]
	}
	for _, v := range row {
		c := v.Column()
		if c >= 0 && c < len(it.values) {
			it.values[c] = append(it.values[c], v)
		}
	}
	return true
}

// Values returns the current row's values grouped by leaf column index.
// Non-repeated columns hold exactly one value, which may be null.
func (it *Rows) Values() [][]parquet.Value {
	return it.values
}

// Err returns the first decoding error hit by Next.
func (it *Rows) Err() error {
	return it.err
}

// Close releases the decoder.
func (it *Rows) Close() error {
	return it.reader.Close()
}
