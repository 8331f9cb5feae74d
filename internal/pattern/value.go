package pattern

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the inferred type of a parameter value.
type Kind int

// Parameter value kinds.
const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindUUID
	KindTime
	KindStringSlice
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUUID:
		return "uuid"
	case KindTime:
		return "time"
	case KindStringSlice:
		return "stringSlice"
	default:
		return "string"
	}
}

// Value is a tagged union for a single extracted parameter. The raw string
// representation is always retained so accessors can re-attempt conversions
// regardless of the inferred kind.
type Value struct {
	kind    Kind
	raw     string
	intVal  int64
	fltVal  float64
	bVal    bool
	uuidVal uuid.UUID
	timeVal time.Time
	sliceV  []string
}

// Infer classifies a raw path segment into a typed Value. Classification
// order: bool, int, float, UUID, RFC 3339 timestamp, string.
func Infer(raw string) Value {
	if strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false") {
		return Value{kind: KindBool, raw: raw, bVal: strings.EqualFold(raw, "true")}
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{kind: KindInt, raw: raw, intVal: i}
	}

	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Value{kind: KindFloat, raw: raw, fltVal: f}
		}
	}

	if u, err := uuid.Parse(raw); err == nil {
		return Value{kind: KindUUID, raw: raw, uuidVal: u}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Value{kind: KindTime, raw: raw, timeVal: t}
	}

	return Value{kind: KindString, raw: raw}
}

// StringValue creates a Value holding a plain string without inference.
func StringValue(raw string) Value {
	return Value{kind: KindString, raw: raw}
}

// SliceValue creates a Value holding multiple strings.
func SliceValue(items []string) Value {
	return Value{kind: KindStringSlice, raw: strings.Join(items, ","), sliceV: items}
}

// Kind returns the inferred kind.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the raw string representation.
func (v Value) String() string {
	return v.raw
}

// Int converts the value to an int64. Conversion is attempted from the raw
// representation even when the stored kind differs.
func (v Value) Int() (int64, bool) {
	if v.kind == KindInt {
		return v.intVal, true
	}
	i, err := strconv.ParseInt(v.raw, 10, 64)
	return i, err == nil
}

// Float converts the value to a float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.fltVal, true
	case KindInt:
		return float64(v.intVal), true
	}
	f, err := strconv.ParseFloat(v.raw, 64)
	return f, err == nil
}

// Bool converts the value to a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.bVal, true
	}
	b, err := strconv.ParseBool(v.raw)
	return b, err == nil
}

// UUID converts the value to a UUID.
func (v Value) UUID() (uuid.UUID, bool) {
	if v.kind == KindUUID {
		return v.uuidVal, true
	}
	u, err := uuid.Parse(v.raw)
	return u, err == nil
}

// Time converts the value to a time.Time (RFC 3339).
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindTime {
		return v.timeVal, true
	}
	t, err := time.Parse(time.RFC3339, v.raw)
	return t, err == nil
}

// Strings returns the value as a string slice. Scalar values yield a
// one-element slice.
func (v Value) Strings() []string {
	if v.kind == KindStringSlice {
		return v.sliceV
	}
	return []string{v.raw}
}

// Params is an immutable-by-convention mapping from parameter name to a
// typed value. Extraction never stores entries for absent optional
// parameters.
type Params map[string]Value

// Has reports whether a parameter is present.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns the Value for a parameter.
func (p Params) Get(name string) (Value, bool) {
	v, ok := p[name]
	return v, ok
}

// String returns the raw string for a parameter.
func (p Params) String(name string) (string, bool) {
	v, ok := p[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Int returns the parameter converted to an int64.
func (p Params) Int(name string) (int64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Float returns the parameter converted to a float64.
func (p Params) Float(name string) (float64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Bool returns the parameter converted to a bool.
func (p Params) Bool(name string) (bool, bool) {
	v, ok := p[name]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// UUID returns the parameter converted to a UUID.
func (p Params) UUID(name string) (uuid.UUID, bool) {
	v, ok := p[name]
	if !ok {
		return uuid.UUID{}, false
	}
	return v.UUID()
}

// Time returns the parameter converted to a time.Time.
func (p Params) Time(name string) (time.Time, bool) {
	v, ok := p[name]
	if !ok {
		return time.Time{}, false
	}
	return v.Time()
}

// Strings returns the parameter as a string slice.
func (p Params) Strings(name string) ([]string, bool) {
	v, ok := p[name]
	if !ok {
		return nil, false
	}
	return v.Strings(), true
}

// Clone returns a shallow copy of the parameter map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
