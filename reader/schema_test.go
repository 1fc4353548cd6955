package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pq2csv/internal/testutil"
)

func openColumns(t *testing.T, path string) []Column {
	t.Helper()
	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	return r.Columns()
}

func TestColumns_PrimitiveTypes(t *testing.T) {
	type Row struct {
		ID       int64   `parquet:"id"`
		Name     string  `parquet:"name"`
		Score    float64 `parquet:"score"`
		Ratio    float32 `parquet:"ratio"`
		Active   bool    `parquet:"active"`
		Optional *string `parquet:"optional,optional"`
	}
	path := testutil.WriteParquet(t, t.TempDir(), "types.parquet", []Row{
		{ID: 1, Name: "Alice", Score: 95.5, Ratio: 0.5, Active: true, Optional: testutil.String("x")},
	})

	columns := openColumns(t, path)
	require.Len(t, columns, 6)

	tests := []struct {
		name     string
		wantType string
		physical string
		nullable bool
	}{
		{"id", "INT64", "INT64", false},
		{"name", "STRING", "BYTE_ARRAY", false},
		{"score", "FLOAT64", "DOUBLE", false},
		{"ratio", "FLOAT32", "FLOAT", false},
		{"active", "BOOLEAN", "BOOLEAN", false},
		{"optional", "STRING", "BYTE_ARRAY", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := Lookup(columns, tt.name)
			require.True(t, ok, "column %s not found", tt.name)
			assert.Equal(t, tt.wantType, col.Type)
			assert.Equal(t, tt.physical, col.PhysicalType)
			assert.Equal(t, tt.nullable, col.Nullable)
			assert.False(t, col.Repeated)
		})
	}
}

func TestColumns_NestedUsesDotNotation(t *testing.T) {
	type Address struct {
		Street string `parquet:"street"`
		City   string `parquet:"city"`
	}
	type Row struct {
		ID      int64   `parquet:"id"`
		Address Address `parquet:"address"`
	}
	path := testutil.WriteParquet(t, t.TempDir(), "nested.parquet", []Row{
		{ID: 1, Address: Address{Street: "123 Main St", City: "Springfield"}},
	})

	columns := openColumns(t, path)
	assert.Equal(t, []string{"id", "address.street", "address.city"}, Names(columns))
}

func TestColumns_Repeated(t *testing.T) {
	type Row struct {
		ID   int64    `parquet:"id"`
		Tags []string `parquet:"tags"`
	}
	path := testutil.WriteParquet(t, t.TempDir(), "repeated.parquet", []Row{
		{ID: 1, Tags: []string{"tag1", "tag2"}},
	})

	col, ok := Lookup(openColumns(t, path), "tags")
	require.True(t, ok)
	assert.True(t, col.Repeated)
}

func TestLookup_Missing(t *testing.T) {
	_, ok := Lookup([]Column{{Name: "a"}}, "b")
	assert.False(t, ok)
}

func TestFriendlyTypeName_FallsBackToPhysical(t *testing.T) {
	path := testutil.WriteParquet(t, t.TempDir(), "people.parquet", testutil.People())

	for _, col := range openColumns(t, path) {
		assert.NotEqual(t, "UNKNOWN", col.Type, col.Name)
		assert.NotEqual(t, "GROUP", col.PhysicalType, col.Name)
	}
}
