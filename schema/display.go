package schema

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/pq2csv/reader"
)

// Display writes a table describing how each column is converted.
//
// With a schema the rows follow the schema and show the parquet type next
// to the schema type; without one they list the table's columns. columns
// may be nil when only a schema file is being displayed.
func Display(w io.Writer, columns []reader.Column, s *Schema) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "COLUMN", "PARQUET", "CSV"})

	if s == nil {
		for i, col := range columns {
			table.Append([]string{strconv.Itoa(i), col.Name, col.Type, notNull(string(ClassOf(col)), !col.Nullable)})
		}
		table.Render()
		return
	}

	for i, sc := range s.Columns {
		pqType := ""
		if col, ok := reader.Lookup(columns, sc.Name); ok {
			pqType = col.Type
		}
		table.Append([]string{strconv.Itoa(i), sc.Name, pqType, notNull(sc.Type, !sc.Nullable)})
	}
	table.Render()
}

func notNull(typ string, required bool) string {
	if required {
		return typ + " NOT NULL"
	}
	return typ
}
