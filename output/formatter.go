package output

import (
	"context"
	"io"

	"github.com/parquet-go/parquet-go"
)

// RowSource yields rows with values grouped per leaf column index.
// *reader.Rows implements it.
type RowSource interface {
	Next() bool
	Values() [][]parquet.Value
	Err() error
}

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to stream rows in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes every row of rows and returns how many were written
	Format(ctx context.Context, rows RowSource) (int64, error)

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
