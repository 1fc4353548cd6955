package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
)

// Column describes one leaf column of a parquet table.
type Column struct {
	// Name is the dot-joined path of the column ("address.street" for
	// nested groups).
	Name string `json:"name"`
	// Index is the leaf column index carried by every parquet.Value.
	Index int `json:"index"`
	// Type is a user-friendly type name such as STRING, INT64 or TIMESTAMP.
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	// Nullable is true when a value of the column may be null, either
	// because the leaf or one of its parents is optional.
	Nullable bool `json:"nullable"`
	// Repeated is true when the leaf or one of its parents is repeated.
	Repeated bool `json:"repeated"`

	Kind    parquet.Kind        `json:"-"`
	Logical *format.LogicalType `json:"-"`
}

// leafColumns flattens the schema into its leaf columns in file order.
func leafColumns(schema *parquet.Schema) []Column {
	paths := schema.Columns()
	columns := make([]Column, 0, len(paths))

	for _, path := range paths {
		leaf, ok := schema.Lookup(path...)
		if !ok {
			continue
		}

		col := Column{
			Name:     strings.Join(path, "."),
			Index:    leaf.ColumnIndex,
			Nullable: leaf.MaxDefinitionLevel > leaf.MaxRepetitionLevel,
			Repeated: leaf.MaxRepetitionLevel > 0,
		}

		if t := leaf.Node.Type(); t != nil {
			col.Kind = t.Kind()
			col.Logical = t.LogicalType()
		}
		col.PhysicalType = physicalTypeName(leaf.Node)
		col.LogicalType = logicalTypeName(leaf.Node)
		col.Type = friendlyTypeName(col)

		columns = append(columns, col)
	}

	return columns
}

// Lookup returns the column with the given dot-joined name.
func Lookup(columns []Column, name string) (Column, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Names returns the names of the columns in order.
func Names(columns []Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// physicalTypeName returns the physical type name of a parquet node.
func physicalTypeName(node parquet.Node) string {
	if node.Type() == nil {
		return "GROUP"
	}

	switch node.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// logicalTypeName returns the logical type annotation of a node, or "".
func logicalTypeName(node parquet.Node) string {
	if node.Type() == nil {
		return ""
	}

	logicalType := node.Type().LogicalType()
	if logicalType == nil {
		return ""
	}
	return logicalType.String()
}

// friendlyTypeName maps physical and logical types onto the simpler names
// shown to users and matched against schema files.
func friendlyTypeName(col Column) string {
	if lt := col.Logical; lt != nil {
		switch {
		case lt.UTF8 != nil:
			return "STRING"
		case lt.Enum != nil:
			return "ENUM"
		case lt.UUID != nil:
			return "UUID"
		case lt.Json != nil:
			return "JSON"
		case lt.Bson != nil:
			return "BSON"
		case lt.Date != nil:
			return "DATE"
		case lt.Time != nil:
			return "TIME"
		case lt.Timestamp != nil:
			return "TIMESTAMP"
		case lt.Decimal != nil:
			return fmt.Sprintf("DECIMAL(%d,%d)", lt.Decimal.Precision, lt.Decimal.Scale)
		case lt.Integer != nil:
			prefix := "INT"
			if !lt.Integer.IsSigned {
				prefix = "UINT"
			}
			return fmt.Sprintf("%s%d", prefix, lt.Integer.BitWidth)
		}
	}

	switch col.Kind {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}
