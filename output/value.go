package output

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
	"github.com/shopspring/decimal"

	"github.com/vegasq/pq2csv/reader"
)

// julianUnixEpoch is the Julian day number of 1970-01-01, used by INT96
// timestamps.
const julianUnixEpoch = 2440588

const (
	localTimestampLayout = "2006-01-02T15:04:05.999999999"
	dateLayout           = "2006-01-02"
	timeLayout           = "15:04:05.999999999"
)

// FloatFormat is a fixed formatting for floating point columns. The zero
// value means shortest round-trip representation.
type FloatFormat struct {
	Verb      byte
	Precision int
}

var floatFormatRE = regexp.MustCompile(`^\.?(\d*)([efgEFG])$`)

// ParseFloatFormat parses specs such as ".7f", ".3e", "g" or "f".
// A missing precision defaults to 6.
func ParseFloatFormat(s string) (FloatFormat, error) {
	if s == "" {
		return FloatFormat{}, nil
	}

	m := floatFormatRE.FindStringSubmatch(s)
	if m == nil {
		return FloatFormat{}, fmt.Errorf("invalid float format %q (want [.N](f|e|g))", s)
	}

	prec := 6
	if m[1] != "" {
		p, err := strconv.Atoi(m[1])
		if err != nil || p > 64 {
			return FloatFormat{}, fmt.Errorf("invalid float precision in %q", s)
		}
		prec = p
	}
	return FloatFormat{Verb: m[2][0], Precision: prec}, nil
}

// IsZero reports whether f selects the default representation.
func (f FloatFormat) IsZero() bool {
	return f.Verb == 0
}

// ValueOptions control how individual values are rendered as text.
type ValueOptions struct {
	// Null is substituted for null values.
	Null string
	// BoolAsInt renders booleans as 1 and 0 instead of true and false.
	BoolAsInt bool
	// InfAsNull renders positive and negative infinity as Null.
	InfAsNull bool
	Float32   FloatFormat
	Float64   FloatFormat
}

// Renderer turns the values of one column in one row into a field.
type Renderer func(values []parquet.Value) string

// scalarFunc renders one non-null value; ok=false means render as null.
type scalarFunc func(v parquet.Value) (s string, ok bool)

// Renderer builds the field renderer for col. override, when non-zero,
// replaces the float format for floating point columns.
func (o ValueOptions) Renderer(col reader.Column, override FloatFormat) Renderer {
	scalar := o.scalar(col, override)

	if !col.Repeated {
		return func(values []parquet.Value) string {
			if len(values) == 0 || values[0].IsNull() {
				return o.Null
			}
			s, ok := scalar(values[0])
			if !ok {
				return o.Null
			}
			return s
		}
	}

	return func(values []parquet.Value) string {
		if len(values) == 0 || (len(values) == 1 && values[0].IsNull()) {
			return o.Null
		}
		parts := make([]string, len(values))
		for i, v := range values {
			s, ok := "", false
			if !v.IsNull() {
				s, ok = scalar(v)
			}
			if !ok {
				s = o.Null
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
}

func (o ValueOptions) scalar(col reader.Column, override FloatFormat) scalarFunc {
	if lt := col.Logical; lt != nil {
		switch {
		case lt.Decimal != nil:
			return decimalScalar(col.Kind, lt.Decimal.Scale)
		case lt.Timestamp != nil:
			return timestampScalar(lt.Timestamp)
		case lt.Date != nil:
			return dateScalar
		case lt.Time != nil:
			return timeScalar(lt.Time)
		case lt.UUID != nil:
			return uuidScalar
		case lt.Integer != nil && !lt.Integer.IsSigned:
			return unsignedScalar(col.Kind)
		case lt.UTF8 != nil, lt.Enum != nil, lt.Json != nil:
			return stringScalar
		case lt.Bson != nil:
			return base64Scalar
		}
	}

	switch col.Kind {
	case parquet.Boolean:
		if o.BoolAsInt {
			return func(v parquet.Value) (string, bool) {
				if v.Boolean() {
					return "1", true
				}
				return "0", true
			}
		}
		return func(v parquet.Value) (string, bool) {
			return strconv.FormatBool(v.Boolean()), true
		}
	case parquet.Int32:
		return func(v parquet.Value) (string, bool) {
			return strconv.FormatInt(int64(v.Int32()), 10), true
		}
	case parquet.Int64:
		return func(v parquet.Value) (string, bool) {
			return strconv.FormatInt(v.Int64(), 10), true
		}
	case parquet.Int96:
		return int96Scalar
	case parquet.Float:
		ff := o.Float32
		if !override.IsZero() {
			ff = override
		}
		return func(v parquet.Value) (string, bool) {
			return o.formatFloat(float64(v.Float()), 32, ff)
		}
	case parquet.Double:
		ff := o.Float64
		if !override.IsZero() {
			ff = override
		}
		return func(v parquet.Value) (string, bool) {
			return o.formatFloat(v.Double(), 64, ff)
		}
	default:
		return bytesScalar
	}
}

// formatFloat renders f. NaN is always null. The default keeps every significant digit and
// switches to exponent form only for very large or very small magnitudes.
func (o ValueOptions) formatFloat(f float64, bits int, ff FloatFormat) (string, bool) {
	if math.IsNaN(f) || (math.IsInf(f, 0) && o.InfAsNull) {
		return "", false
	}

	if ff.IsZero() {
		abs := math.Abs(f)
		verb := byte('f')
		if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
			verb = 'g'
		}
		return strconv.FormatFloat(f, verb, -1, bits), true
	}

	s := strconv.FormatFloat(f, ff.Verb, ff.Precision, bits)
	if ff.Verb == 'f' || ff.Verb == 'F' {
		s = trimFixed(f, s)
	}
	return s, true
}

// trimFixed drops trailing zeros from a fixed-point rendering, keeping at
// least one digit after the point.
func trimFixed(f float64, s string) string {
	if f == 0 {
		return "0.0"
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func stringScalar(v parquet.Value) (string, bool) {
	return string(v.ByteArray()), true
}

func base64Scalar(v parquet.Value) (string, bool) {
	return base64.StdEncoding.EncodeToString(v.ByteArray()), true
}

// bytesScalar renders raw byte arrays as text when they hold valid UTF-8.
func bytesScalar(v parquet.Value) (string, bool) {
	b := v.ByteArray()
	if utf8.Valid(b) {
		return string(b), true
	}
	return base64.StdEncoding.EncodeToString(b), true
}

func uuidScalar(v parquet.Value) (string, bool) {
	u, err := uuid.FromBytes(v.ByteArray())
	if err != nil {
		return base64Scalar(v)
	}
	return u.String(), true
}

func unsignedScalar(kind parquet.Kind) scalarFunc {
	if kind == parquet.Int32 {
		return func(v parquet.Value) (string, bool) {
			return strconv.FormatUint(uint64(uint32(v.Int32())), 10), true
		}
	}
	return func(v parquet.Value) (string, bool) {
		return strconv.FormatUint(uint64(v.Int64()), 10), true
	}
}

// decimalScalar renders an unscaled integer with exactly scale fractional
// digits. Byte array decimals are big-endian two's complement.
func decimalScalar(kind parquet.Kind, scale int32) scalarFunc {
	switch kind {
	case parquet.Int32:
		return func(v parquet.Value) (string, bool) {
			return decimal.New(int64(v.Int32()), -scale).StringFixed(scale), true
		}
	case parquet.Int64:
		return func(v parquet.Value) (string, bool) {
			return decimal.New(v.Int64(), -scale).StringFixed(scale), true
		}
	default:
		return func(v parquet.Value) (string, bool) {
			unscaled := twosComplement(v.ByteArray())
			return decimal.NewFromBigInt(unscaled, -scale).StringFixed(scale), true
		}
	}
}

func twosComplement(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n
}

func timestampScalar(ts *format.TimestampType) scalarFunc {
	toTime := unitTime(ts.Unit)
	layout := time.RFC3339Nano
	if !ts.IsAdjustedToUTC {
		layout = localTimestampLayout
	}
	return func(v parquet.Value) (string, bool) {
		return toTime(v.Int64()).UTC().Format(layout), true
	}
}

func timeScalar(tt *format.TimeType) scalarFunc {
	toTime := unitTime(tt.Unit)
	return func(v parquet.Value) (string, bool) {
		n := v.Int64()
		if v.Kind() == parquet.Int32 {
			n = int64(v.Int32())
		}
		return toTime(n).UTC().Format(timeLayout), true
	}
}

func unitTime(unit format.TimeUnit) func(int64) time.Time {
	switch {
	case unit.Millis != nil:
		return time.UnixMilli
	case unit.Micros != nil:
		return time.UnixMicro
	default:
		return func(n int64) time.Time { return time.Unix(0, n) }
	}
}

func dateScalar(v parquet.Value) (string, bool) {
	days := int64(v.Int32())
	return time.Unix(days*86400, 0).UTC().Format(dateLayout), true
}

// int96Scalar decodes the legacy INT96 timestamp: nanoseconds within the
// day in the low 8 bytes, Julian day number in the high 4.
func int96Scalar(v parquet.Value) (string, bool) {
	i96 := v.Int96()
	nanos := int64(uint64(i96[1])<<32 | uint64(i96[0]))
	days := int64(i96[2]) - julianUnixEpoch
	return time.Unix(days*86400, nanos).UTC().Format(time.RFC3339Nano), true
}
