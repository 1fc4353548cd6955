package output

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/pq2csv/reader"
)

// ErrWrite wraps every failure to write to the destination.
var ErrWrite = errors.New("write failed")

// cancelCheckInterval is how many rows are written between context checks.
const cancelCheckInterval = 1024

var (
	_ Formatter = (*CSVFormatter)(nil)
	_ RowSource = (*reader.Rows)(nil)
)

// Options configure a CSVFormatter.
type Options struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
	// Header writes the column names as the first line.
	Header bool
	Values ValueOptions
	// FloatOverrides sets a fixed float format per column name.
	FloatOverrides map[string]FloatFormat
}

// CSVFormatter writes rows as delimited text.
//
// Fields are quoted only when they contain the delimiter, a quote or a line
// break. Lines end with a single '\n'. A record made of one empty field is
// written as "" so that it does not read back as a blank line.
type CSVFormatter struct {
	writer    io.Writer
	columns   []reader.Column
	options   Options
	renderers []Renderer
}

// NewCSVFormatter creates a formatter that emits columns, in that order.
func NewCSVFormatter(w io.Writer, columns []reader.Column, opts Options) *CSVFormatter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	renderers := make([]Renderer, len(columns))
	for i, col := range columns {
		renderers[i] = opts.Values.Renderer(col, opts.FloatOverrides[col.Name])
	}

	return &CSVFormatter{
		writer:    w,
		columns:   columns,
		options:   opts,
		renderers: renderers,
	}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Columns returns the emitted columns in order.
func (c *CSVFormatter) Columns() []reader.Column {
	return c.columns
}

// Options returns the effective options, with defaults applied.
func (c *CSVFormatter) Options() Options {
	return c.options
}

// Header returns the header fields.
func (c *CSVFormatter) Header() []string {
	return reader.Names(c.columns)
}

// Record renders one row into dst, which is grown as needed.
func (c *CSVFormatter) Record(values [][]parquet.Value, dst []string) []string {
	dst = dst[:0]
	for i, col := range c.columns {
		var v []parquet.Value
		if col.Index < len(values) {
			v = values[col.Index]
		}
		dst = append(dst, c.renderers[i](v))
	}
	return dst
}

// Format writes the header (when enabled) and every row of rows. It returns
// the number of data rows written.
//
// Write failures are wrapped with ErrWrite; decoding failures from rows are
// returned as reported by rows.Err.
func (c *CSVFormatter) Format(ctx context.Context, rows RowSource) (int64, error) {
	// csv.NewWriter reuses buf, so direct writes stay in order.
	buf := bufio.NewWriter(c.writer)
	csvWriter := csv.NewWriter(buf)
	csvWriter.Comma = c.options.Delimiter

	if c.options.Header {
		if err := writeRecord(csvWriter, buf, c.Header()); err != nil {
			return 0, fmt.Errorf("%w: header: %w", ErrWrite, err)
		}
	}

	var written int64
	record := make([]string, 0, len(c.columns))
	for rows.Next() {
		record = c.Record(rows.Values(), record)
		if err := writeRecord(csvWriter, buf, record); err != nil {
			return written, fmt.Errorf("%w: row %d: %w", ErrWrite, written+1, err)
		}
		written++

		if written%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				csvWriter.Flush()
				return written, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		csvWriter.Flush()
		return written, err
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return written, fmt.Errorf("%w: failed to flush CSV writer: %w", ErrWrite, err)
	}

	return written, nil
}

// writeRecord writes record through w, quoting a lone empty field itself.
func writeRecord(w *csv.Writer, buf *bufio.Writer, record []string) error {
	if len(record) == 1 && record[0] == "" {
		_, err := buf.WriteString("\"\"\n")
		return err
	}
	return w.Write(record)
}
