// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// Person is the common fixture row: a string, an optional integer and a
// float column.
type Person struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Age   *int32  `parquet:"age,optional"`
	Score float64 `parquet:"score"`
}

// Int32 returns a pointer to v for optional fixture fields.
func Int32(v int32) *int32 {
	return &v
}

// String returns a pointer to v for optional fixture fields.
func String(v string) *string {
	return &v
}

// People returns three fixture rows; the second has a null age.
func People() []Person {
	return []Person{
		{ID: 1, Name: "alice", Age: Int32(30), Score: 95.5},
		{ID: 2, Name: "bob", Age: nil, Score: 82.25},
		{ID: 3, Name: "charlie, jr", Age: Int32(35), Score: 0.1},
	}
}

// WriteParquet writes rows into dir/name and returns the file path.
func WriteParquet[T any](t *testing.T, dir, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[T](f)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			t.Fatalf("failed to write test data: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	return path
}

// WriteFile writes raw content into dir/name and returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
