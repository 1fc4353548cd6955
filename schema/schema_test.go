package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/pq2csv/output"
)

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(`
# people table
id      long      NOT NULL,
name    varchar(40),
age     int
score   decimal(10, 2)   # money
active  bool not null
`))
	require.NoError(t, err)
	require.Len(t, s.Columns, 5)
	assert.Equal(t, []string{"id", "name", "age", "score", "active"}, s.Names())

	tests := []struct {
		name     string
		class    Class
		nullable bool
	}{
		{"id", ClassInt64, false},
		{"name", ClassChar, true},
		{"age", ClassInt32, true},
		{"score", ClassFloat64, true},
		{"active", ClassBool, false},
	}
	for _, tt := range tests {
		col, ok := s.Lookup(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.class, col.Class, tt.name)
		assert.Equal(t, tt.nullable, col.Nullable, tt.name)
	}

	score, _ := s.Lookup("score")
	assert.True(t, score.Decimal)
	assert.Equal(t, 10, score.Precision)
	assert.Equal(t, 2, score.Scale)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "# nothing\n\n", "no columns"},
		{"missing type", "id\n", "has no type"},
		{"unsupported type", "id blob\n", "unsupported type"},
		{"duplicate", "id int\nid long\n", "defined twice"},
		{"bad decimal", "x decimal(a,2)\n", "decimal precision"},
		{"too many decimal args", "x decimal(1,2,3)\n", "invalid decimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDecimal_Classes(t *testing.T) {
	tests := []struct {
		typ    string
		class  Class
		format output.FloatFormat
	}{
		{"decimal(2)", ClassInt8, output.FloatFormat{}},
		{"decimal(4,0)", ClassInt16, output.FloatFormat{}},
		{"decimal(9)", ClassInt32, output.FloatFormat{}},
		{"decimal(18)", ClassInt64, output.FloatFormat{}},
		{"decimal(6,2)", ClassFloat32, output.FloatFormat{Verb: 'f', Precision: 2}},
		{"DECIMAL(12,4)", ClassFloat64, output.FloatFormat{Verb: 'f', Precision: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			col := Column{Name: "x"}
			require.NoError(t, parseType(&col, tt.typ))
			assert.Equal(t, tt.class, col.Class)
			assert.Equal(t, tt.format, col.Format)
		})
	}
}

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML(strings.NewReader(`
columns:
  - name: id
    type: long
    nullable: false
  - name: price
    type: decimal(8,3)
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "price"}, s.Names())

	id, _ := s.Lookup("id")
	assert.False(t, id.Nullable)
	price, _ := s.Lookup("price")
	assert.True(t, price.Nullable)
	assert.Equal(t, map[string]output.FloatFormat{"price": {Verb: 'f', Precision: 3}}, s.FloatOverrides())
}

func TestParseYAML_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"no columns":   "columns: []\n",
		"missing type": "columns:\n  - name: id\n",
		"bad type":     "columns:\n  - name: id\n    type: blob\n",
		"not yaml":     "columns: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_PicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "people.schema")
	yml := filepath.Join(dir, "people.yml")
	require.NoError(t, os.WriteFile(text, []byte("id long\n"), 0o644))
	require.NoError(t, os.WriteFile(yml, []byte("columns:\n  - {name: id, type: long}\n"), 0o644))

	for _, path := range []string{text, yml} {
		s, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, path, s.Path)
		assert.Equal(t, []string{"id"}, s.Names())
	}

	_, err := Load(filepath.Join(dir, "missing.schema"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSupportedTypes(t *testing.T) {
	types := SupportedTypes()
	for _, name := range []string{"int", "long", "double", "varchar(n)", "decimal(p[,s])"} {
		assert.Contains(t, types, name)
	}
}
