// internal/schema/value.go
package schema

import (
	"math"
	"strconv"
	"strings"
)

// Value is one typed cell of a canonical row.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
}

func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Str() string    { return v.s }
func (v Value) Float() float64 { return v.f }
func (v Value) Int() int64     { return v.i }

// Any returns the underlying Go value (string, float64 or int64).
func (v Value) Any() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return v.i
	default:
		return v.s
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return formatFloat(v.f)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// formatFloat renders the shortest round-trip form, always with a decimal
// point or exponent: 0.05, 1.0, 5e-08, 1e+16.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if a := math.Abs(f); a < 1e-4 || a >= 1e16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// parseFloat accepts decimal and scientific notation and "inf"/"Infinity".
// Empty, NaN and hexadecimal input are missing.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseInt accepts integers and integral-looking floats ("1500.0"), truncating
// the fraction. Values outside int64, infinities included, are missing.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, ok := parseFloat(s)
	if !ok || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

// coerce parses raw as kind k. ok is false when the cell is missing.
func coerce(k Kind, raw string) (Value, bool) {
	switch k {
	case KindFloat:
		f, ok := parseFloat(raw)
		return FloatValue(f), ok
	case KindInt:
		i, ok := parseInt(raw)
		return IntValue(i), ok
	default:
		return StringValue(raw), true
	}
}
