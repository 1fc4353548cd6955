// Package schema loads schema files that describe the expected columns of
// a parquet table, verifies tables against them and displays the
// conversion from parquet types to text.
//
// Two formats are accepted. The text format has one column per line,
//
//	<name> <type> [NOT NULL][,]
//
// with blank lines and '#' comments ignored. Files ending in .yaml or
// .yml use
//
//	columns:
//	  - name: id
//	    type: long
//	    nullable: false
package schema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vegasq/pq2csv/output"
)

// ErrInvalid is returned for schema files that cannot be parsed.
var ErrInvalid = errors.New("invalid schema file")

// Column is one column of a schema file.
type Column struct {
	Name string
	// Type is the type as written in the file.
	Type     string
	Class    Class
	Nullable bool
	// Decimal is set for decimal(p[,s]) types.
	Decimal   bool
	Precision int
	Scale     int
	// Format is the fixed output format implied by decimal(p,s), s > 0.
	Format output.FloatFormat
}

// Schema is an ordered list of columns.
type Schema struct {
	Path    string
	Columns []Column
}

// Load reads a schema file, choosing the format from its extension.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema file '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var s *Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(f)
	default:
		s, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("schema file '%s': %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse reads the text schema format.
func Parse(r io.Reader) (*Schema, error) {
	s := &Schema{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		toks := strings.Fields(strings.ReplaceAll(line, ",", " , "))
		toks = trimCommas(toks)
		if len(toks) == 0 {
			continue
		}
		if len(toks) < 2 {
			return nil, fmt.Errorf("%w: line %d: column %q has no type", ErrInvalid, lineNo, toks[0])
		}

		col := Column{
			Name:     toks[0],
			Type:     toks[1],
			Nullable: !strings.Contains(strings.ToUpper(strings.Join(toks[2:], " ")), "NOT NULL"),
		}
		if err := s.add(col); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalid, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns defined", ErrInvalid)
	}

	return s, nil
}

// trimCommas drops separator tokens while keeping decimal(p,s) intact.
func trimCommas(toks []string) []string {
	out := toks[:0]
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		// rejoin "decimal(10" "," "2)" split by the comma padding above
		if strings.Contains(tok, "(") && !strings.Contains(tok, ")") {
			for i+1 < len(toks) && !strings.Contains(tok, ")") {
				i++
				tok += toks[i]
			}
		}
		if tok != "," {
			out = append(out, tok)
		}
	}
	return out
}

type yamlSchema struct {
	Columns []struct {
		Name     string `yaml:"name"`
		Type     string `yaml:"type"`
		Nullable *bool  `yaml:"nullable"`
	} `yaml:"columns"`
}

// ParseYAML reads the YAML schema format. Columns are nullable unless
// nullable: false is given.
func ParseYAML(r io.Reader) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no columns defined", ErrInvalid)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s := &Schema{}
	for i, c := range doc.Columns {
		if c.Name == "" || c.Type == "" {
			return nil, fmt.Errorf("%w: column %d needs a name and a type", ErrInvalid, i+1)
		}
		col := Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable == nil || *c.Nullable}
		if err := s.add(col); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns defined", ErrInvalid)
	}
	return s, nil
}

func (s *Schema) add(col Column) error {
	if _, ok := s.Lookup(col.Name); ok {
		return fmt.Errorf("column %q defined twice", col.Name)
	}
	if err := parseType(&col, col.Type); err != nil {
		return err
	}
	s.Columns = append(s.Columns, col)
	return nil
}

// Lookup returns the schema column with the given name.
func (s *Schema) Lookup(name string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// FloatOverrides returns the fixed float formats implied by decimal(p,s)
// columns, keyed by column name.
func (s *Schema) FloatOverrides() map[string]output.FloatFormat {
	overrides := make(map[string]output.FloatFormat)
	for _, col := range s.Columns {
		if !col.Format.IsZero() {
			overrides[col.Name] = col.Format
		}
	}
	return overrides
}
