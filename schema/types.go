package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/pq2csv/output"
	"github.com/vegasq/pq2csv/reader"
)

// Class is the normalized storage class used to compare schema types with
// parquet column types.
type Class string

// Storage classes.
const (
	ClassInt8      Class = "int8"
	ClassInt16     Class = "int16"
	ClassInt32     Class = "int32"
	ClassInt64     Class = "int64"
	ClassFloat32   Class = "float32"
	ClassFloat64   Class = "float64"
	ClassChar      Class = "char"
	ClassBool      Class = "bool"
	ClassDecimal   Class = "decimal"
	ClassTimestamp Class = "timestamp"
	ClassDate      Class = "date"
	ClassTime      Class = "time"
	ClassUUID      Class = "uuid"
)

var typeTable = map[string]Class{
	"int":       ClassInt32,
	"short":     ClassInt16,
	"long":      ClassInt64,
	"bigint":    ClassInt64,
	"smallint":  ClassInt16,
	"int8":      ClassInt8,
	"int32":     ClassInt32,
	"int64":     ClassInt64,
	"float":     ClassFloat32,
	"double":    ClassFloat64,
	"float32":   ClassFloat32,
	"float64":   ClassFloat64,
	"char":      ClassChar,
	"bool":      ClassBool,
	"timestamp": ClassTimestamp,
	"date":      ClassDate,
	"time":      ClassTime,
	"uuid":      ClassUUID,
}

// SupportedTypes lists the accepted type names for usage messages.
func SupportedTypes() string {
	names := make([]string, 0, len(typeTable)+2)
	for name := range typeTable {
		names = append(names, name)
	}
	names = append(names, "varchar(n)", "decimal(p[,s])")
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parseType resolves a schema type name into col. decimal(p,0) maps onto an
// integer class sized by precision; decimal(p,s) maps onto a float class
// and records the scale for fixed-point output.
func parseType(col *Column, typ string) error {
	xtype := strings.ToLower(typ)

	switch {
	case strings.HasPrefix(xtype, "char"), strings.HasPrefix(xtype, "varchar"):
		col.Class = ClassChar
		return nil
	case strings.HasPrefix(xtype, "decimal("):
		return parseDecimal(col, xtype[len("decimal("):])
	}

	class, ok := typeTable[xtype]
	if !ok {
		return fmt.Errorf("column %q has an unsupported type %q", col.Name, typ)
	}
	col.Class = class
	return nil
}

func parseDecimal(col *Column, args string) error {
	end := strings.IndexByte(args, ')')
	if end < 1 {
		return fmt.Errorf("column %q has an invalid decimal type", col.Name)
	}

	parts := strings.Split(args[:end], ",")
	if len(parts) > 2 {
		return fmt.Errorf("column %q has an invalid decimal type", col.Name)
	}
	precision, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || precision < 0 {
		return fmt.Errorf("column %q has an invalid decimal precision", col.Name)
	}
	scale := 0
	if len(parts) == 2 {
		scale, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || scale < 0 {
			return fmt.Errorf("column %q has an invalid decimal scale", col.Name)
		}
	}

	col.Decimal = true
	col.Precision = precision
	col.Scale = scale

	if scale == 0 {
		switch {
		case precision < 3:
			col.Class = ClassInt8
		case precision < 5:
			col.Class = ClassInt16
		case precision < 10:
			col.Class = ClassInt32
		default:
			col.Class = ClassInt64
		}
		return nil
	}

	col.Format = output.FloatFormat{Verb: 'f', Precision: scale}
	if precision < 7 {
		col.Class = ClassFloat32
	} else {
		col.Class = ClassFloat64
	}
	return nil
}

// ClassOf returns the storage class of a parquet column.
func ClassOf(col reader.Column) Class {
	if lt := col.Logical; lt != nil {
		switch {
		case lt.Decimal != nil:
			return ClassDecimal
		case lt.Timestamp != nil:
			return ClassTimestamp
		case lt.Date != nil:
			return ClassDate
		case lt.Time != nil:
			return ClassTime
		case lt.UUID != nil:
			return ClassUUID
		case lt.UTF8 != nil, lt.Enum != nil, lt.Json != nil:
			return ClassChar
		case lt.Integer != nil:
			switch lt.Integer.BitWidth {
			case 8:
				return ClassInt8
			case 16:
				return ClassInt16
			case 32:
				return ClassInt32
			default:
				return ClassInt64
			}
		}
	}

	switch col.Kind {
	case parquet.Boolean:
		return ClassBool
	case parquet.Int32:
		return ClassInt32
	case parquet.Int64:
		return ClassInt64
	case parquet.Int96:
		return ClassTimestamp
	case parquet.Float:
		return ClassFloat32
	case parquet.Double:
		return ClassFloat64
	default:
		return ClassChar
	}
}

// compatible reports whether a parquet column can be described by the
// schema column.
func (c Column) compatible(col reader.Column) bool {
	class := ClassOf(col)
	if class == c.Class {
		return true
	}
	return c.Decimal && class == ClassDecimal
}
