package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vegasq/pq2csv/reader"
)

// ErrMismatch is returned when a table does not match its schema file.
var ErrMismatch = errors.New("schema verification failed")

// MismatchError lists the problems found by Verify.
type MismatchError struct {
	Problems []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMismatch, strings.Join(e.Problems, "; "))
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Verify checks that every table column appears in the schema with a
// compatible type and that the column counts agree. Unless all is set it
// stops at the first problem.
//
// On success it returns the column names in schema order.
func (s *Schema) Verify(columns []reader.Column, all bool) ([]string, error) {
	var problems []string
	report := func(format string, args ...any) bool {
		problems = append(problems, fmt.Sprintf(format, args...))
		return all
	}

	for _, col := range columns {
		sc, ok := s.Lookup(col.Name)
		if !ok {
			if !report("parquet file contains non-schema column '%s'", col.Name) {
				break
			}
			continue
		}
		if !sc.compatible(col) {
			if !report("column '%s' has wrong datatype; parquet is %s while schema is %s", col.Name, col.Type, sc.Type) {
				break
			}
		}
	}

	if len(problems) == 0 || all {
		if len(columns) != len(s.Columns) {
			report("schema with %d cols does not match the data with %d cols", len(s.Columns), len(columns))
		}
	}

	if len(problems) > 0 {
		return nil, &MismatchError{Problems: problems}
	}
	return s.Names(), nil
}
