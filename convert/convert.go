// Package convert implements the parquet to delimited text conversion.
//
// Convert validates everything it can before touching the destination: the
// input must decode as parquet, every requested column must exist and the
// optional schema file must match. Only then is the output opened and the
// rows streamed through the output formatter.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/vegasq/pq2csv/output"
	"github.com/vegasq/pq2csv/reader"
	"github.com/vegasq/pq2csv/schema"
)

// StdinName is used in messages when the table is read from stdin.
const StdinName = "<stdin>"

// Options configure a conversion.
type Options struct {
	// Delimiter separates fields.
	Delimiter rune
	// Header emits the column names as the first line.
	Header bool
	// Columns restricts and orders the emitted columns. Empty means all
	// columns in file order (or schema order when Schema is set).
	Columns []string
	// Null is written for null values.
	Null      string
	BoolAsInt bool
	InfAsNull bool
	Float32   output.FloatFormat
	Float64   output.FloatFormat
	Encoding  output.Encoding
	// Compression is applied to the destination; CodecAuto picks it from
	// the output file suffix.
	Compression output.Codec
	// Schema, when set, is verified against the table before converting.
	Schema *schema.Schema
	// ReportAll lists every schema mismatch instead of the first one.
	ReportAll bool
	// Display prints the conversion table. Without an output path nothing
	// is converted.
	Display bool
	// SkipExisting skips the conversion when the output file exists.
	SkipExisting bool
	// Verify reads the output file back and compares it with the table.
	Verify bool
}

// DefaultOptions returns comma-separated output with a header line and
// empty nulls.
func DefaultOptions() Options {
	return Options{
		Delimiter:   ',',
		Header:      true,
		Encoding:    output.UTF8,
		Compression: output.CodecAuto,
	}
}

// Result describes a finished conversion.
type Result struct {
	// Rows is the number of data lines written.
	Rows    int64
	Columns []string
	// Skipped is set when SkipExisting found the output already present.
	Skipped bool
	// DisplayOnly is set when only the conversion table was printed.
	DisplayOnly bool
}

// Converter holds the process streams used for "-" and missing paths.
type Converter struct {
	Stdin  io.Reader
	Stdout io.Writer
	Logger *zap.Logger
}

// New returns a Converter bound to the given streams.
func New(stdin io.Reader, stdout io.Writer, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{Stdin: stdin, Stdout: stdout, Logger: logger}
}

// Convert renders the table at input as delimited text into outputPath.
// An empty input or "-" reads stdin; an empty outputPath writes stdout.
func (c *Converter) Convert(ctx context.Context, input, outputPath string, opts Options) (res Result, err error) {
	if err := ctx.Err(); err != nil {
		return res, err
	}
	log := c.Logger.With(zap.String("input", displayName(input)), zap.String("output", displayOutput(outputPath)))

	if SchemaOnly(input, opts) {
		log.Debug("displaying schema file only")
		schema.Display(c.Stdout, nil, opts.Schema)
		res.DisplayOnly = true
		return res, nil
	}

	r, err := c.open(input)
	if err != nil {
		return res, err
	}
	defer func() { _ = r.Close() }()

	log.Debug("opened table", zap.Int64("rows", r.NumRows()), zap.Int("columns", len(r.Columns())))

	selected, err := selectColumns(r, opts)
	if err != nil {
		return res, err
	}
	res.Columns = reader.Names(selected)

	if opts.Display {
		schema.Display(c.Stdout, r.Columns(), opts.Schema)
		if outputPath == "" {
			res.DisplayOnly = true
			return res, nil
		}
	}

	if outputPath != "" && opts.SkipExisting {
		if _, statErr := os.Stat(outputPath); statErr == nil {
			log.Info("skipping conversion, output file exists")
			res.Skipped = true
			return res, nil
		}
	}

	formatter := output.NewCSVFormatter(nil, selected, formatterOptions(opts))

	log.Info("converting", zap.Strings("columns", res.Columns))
	res.Rows, err = c.write(ctx, r, outputPath, formatter, opts)
	if err != nil {
		return res, err
	}
	log.Info("converted", zap.Int64("rows", res.Rows))

	if opts.Verify && outputPath != "" {
		if err := verifyOutput(ctx, r, outputPath, formatter, opts); err != nil {
			return res, err
		}
		log.Info("verified output", zap.Int64("rows", res.Rows))
	}

	return res, nil
}

// SchemaOnly reports whether Convert only displays the schema file: Display
// and Schema are set and no infile was named. "-" still reads stdin.
func SchemaOnly(input string, opts Options) bool {
	return input == "" && opts.Display && opts.Schema != nil
}

// open opens the input table and classifies failures.
func (c *Converter) open(input string) (*reader.Reader, error) {
	var (
		r   *reader.Reader
		err error
	)
	if input == "" || input == "-" {
		r, err = reader.NewReaderFrom(c.Stdin, StdinName)
	} else {
		r, err = reader.NewReader(input)
	}
	if err == nil {
		return r, nil
	}

	name := displayName(input)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: file '%s' not found", ErrInputNotFound, name)
	case errors.Is(err, reader.ErrNotRegular):
		return nil, fmt.Errorf("%w: '%s' is not a file", ErrInputNotFound, name)
	case errors.Is(err, reader.ErrNotParquet):
		return nil, fmt.Errorf("%w: %s: %w", ErrInputFormat, name, err)
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, name, err)
	}
}

// selectColumns resolves the emitted columns: --columns first, then the
// schema order, then file order.
func selectColumns(r *reader.Reader, opts Options) ([]reader.Column, error) {
	columns := r.Columns()
	names := opts.Columns

	if opts.Schema != nil {
		order, err := opts.Schema.Verify(columns, opts.ReportAll)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name(), err)
		}
		if len(names) == 0 {
			names = order
		}
	}

	if len(names) == 0 {
		return columns, nil
	}

	selected := make([]reader.Column, 0, len(names))
	for _, name := range names {
		col, ok := reader.Lookup(columns, name)
		if !ok {
			return nil, &ColumnNotFoundError{Column: name, Input: r.Name(), Available: reader.Names(columns)}
		}
		selected = append(selected, col)
	}
	return selected, nil
}

func formatterOptions(opts Options) output.Options {
	o := output.Options{
		Delimiter: opts.Delimiter,
		Header:    opts.Header,
		Values: output.ValueOptions{
			Null:      opts.Null,
			BoolAsInt: opts.BoolAsInt,
			InfAsNull: opts.InfAsNull,
			Float32:   opts.Float32,
			Float64:   opts.Float64,
		},
	}
	if opts.Schema != nil {
		o.FloatOverrides = opts.Schema.FloatOverrides()
	}
	return o
}

// write opens the destination, streams every row and closes the writer
// chain. A destination file is created only after the input has been
// validated.
func (c *Converter) write(ctx context.Context, r *reader.Reader, outputPath string, formatter *output.CSVFormatter, opts Options) (n int64, err error) {
	var dst io.Writer = c.Stdout
	if outputPath != "" {
		f, ferr := os.Create(outputPath)
		if ferr != nil {
			return 0, fmt.Errorf("%w: cannot create '%s': %w", ErrOutputWrite, outputPath, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("%w: closing '%s': %w", ErrOutputWrite, outputPath, cerr))
			}
		}()
		dst = f
	}

	sink, err := output.NewSink(dst, opts.Compression.Resolve(outputPath), opts.Encoding)
	if err != nil {
		if outputPath != "" {
			_ = os.Remove(outputPath)
		}
		return 0, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	formatter.SetOutput(sink)

	rows := r.Rows()
	n, err = formatter.Format(ctx, rows)
	err = multierr.Append(err, rows.Close())
	if cerr := sink.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %w", ErrOutputWrite, cerr))
	}

	return n, classifyWriteError(err, displayOutput(outputPath))
}

func classifyWriteError(err error, dest string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrOutputWrite):
		return err
	case errors.Is(err, output.ErrWrite):
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, dest, err)
	case errors.Is(err, reader.ErrNotParquet):
		return fmt.Errorf("%w: %w", ErrInputFormat, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, dest, err)
	}
}

func displayName(input string) string {
	if input == "" || input == "-" {
		return StdinName
	}
	return input
}

func displayOutput(path string) string {
	if path == "" {
		return "<stdout>"
	}
	return path
}
