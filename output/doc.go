// Package output renders parquet rows as delimited text.
//
// The CSVFormatter streams rows from a RowSource, renders every value with
// a per-column Renderer and writes delimited lines through encoding/csv
// quoting rules. A Sink sits between the formatter and the destination and
// applies the output text encoding and optional compression.
//
// # Basic Usage
//
//	formatter := output.NewCSVFormatter(os.Stdout, r.Columns(), output.Options{
//	    Delimiter: ',',
//	    Header:    true,
//	})
//	n, err := formatter.Format(ctx, r.Rows())
//
// # Writing Compressed or Re-encoded Output
//
//	sink, err := output.NewSink(file, output.CodecGzip, output.Latin1)
//	if err != nil {
//	    return err
//	}
//	formatter.SetOutput(sink)
//	if _, err := formatter.Format(ctx, rows); err != nil {
//	    return err
//	}
//	return sink.Close()
//
// # Type Handling
//
//   - Integers and booleans are written directly; unsigned logical types
//     are rendered unsigned
//   - Floats keep every significant digit unless a fixed FloatFormat is set
//   - Timestamps render as RFC 3339 with nanoseconds, dates as YYYY-MM-DD
//     and times as HH:MM:SS
//   - Decimals render with exactly their scale in fractional digits
//   - UUIDs use the canonical hyphenated form
//   - Byte arrays render as text when valid UTF-8 and base64 otherwise
//   - Repeated columns render as [v1,v2,...]
//   - Nulls render as ValueOptions.Null
package output
