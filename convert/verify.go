package convert

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/vegasq/pq2csv/output"
	"github.com/vegasq/pq2csv/reader"
)

// verifyOutput reads outputPath back and compares every field with a fresh
// rendering of the table.
func verifyOutput(ctx context.Context, r *reader.Reader, outputPath string, formatter *output.CSVFormatter, opts Options) error {
	f, err := os.Open(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	defer func() { _ = f.Close() }()

	decompressed, err := opts.Compression.Resolve(outputPath).NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrVerify, outputPath, err)
	}
	defer func() { _ = decompressed.Close() }()

	csvReader := csv.NewReader(opts.Encoding.NewReader(decompressed))
	csvReader.Comma = formatter.Options().Delimiter
	csvReader.FieldsPerRecord = len(formatter.Columns())
	csvReader.ReuseRecord = true

	fail := func(line int64, format string, args ...any) error {
		return fmt.Errorf("%w: %s line %d: %s", ErrVerify, outputPath, line, fmt.Sprintf(format, args...))
	}

	var line int64
	if opts.Header {
		line++
		got, err := csvReader.Read()
		if err != nil {
			return fail(line, "reading header: %v", err)
		}
		if !slices.Equal(got, formatter.Header()) {
			return fail(line, "header %q does not match %q", got, formatter.Header())
		}
	}

	rows := r.Rows()
	defer func() { _ = rows.Close() }()

	var want []string
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		want = formatter.Record(rows.Values(), want)
		for i := range want {
			want[i] = strings.ReplaceAll(want[i], "\r\n", "\n")
		}

		line++
		got, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fail(line, "output ends early")
			}
			return fail(line, "%v", err)
		}
		for i := range want {
			if got[i] != want[i] {
				return fail(line, "column '%s' is %q, want %q", formatter.Columns()[i].Name, got[i], want[i])
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInputFormat, err)
	}

	if _, err := csvReader.Read(); !errors.Is(err, io.EOF) {
		return fail(line+1, "unexpected extra data")
	}
	return nil
}
