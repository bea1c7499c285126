package tabler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindMap
	KindList
	KindOptional
)

var kindNames = [...]string{"null", "string", "number", "bool", "map", "list", "optional"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a field value read from a record. The set of implementations is
// closed: [Null], [String], [Number], [Bool], [Map], [List] and [Optional].
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the absent value.
type Null struct{}

// String is a text scalar.
type String string

// Number is a numeric scalar kept in its decimal text form so that integers
// and floats render exactly as they were read.
type Number string

// Bool is a boolean scalar.
type Bool bool

// Map is a structured value keyed by name. It serializes with sorted keys.
type Map map[string]Value

// List is an ordered structured value.
type List []Value

// Optional wraps a value that a record may leave out entirely. The zero
// Optional is empty.
type Optional struct {
	v  Value
	ok bool
}

func (Null) Kind() Kind     { return KindNull }
func (String) Kind() Kind   { return KindString }
func (Number) Kind() Kind   { return KindNumber }
func (Bool) Kind() Kind     { return KindBool }
func (Map) Kind() Kind      { return KindMap }
func (List) Kind() Kind     { return KindList }
func (Optional) Kind() Kind { return KindOptional }

func (Null) sealed()     {}
func (String) sealed()   {}
func (Number) sealed()   {}
func (Bool) sealed()     {}
func (Map) sealed()      {}
func (List) sealed()     {}
func (Optional) sealed() {}

// Some wraps v as a present optional value.
func Some(v Value) Optional {
	if v == nil {
		v = Null{}
	}
	return Optional{v: v, ok: true}
}

// None returns an empty optional value.
func None() Optional { return Optional{} }

// Get returns the wrapped value and whether it is set.
func (o Optional) Get() (Value, bool) {
	if !o.ok {
		return Null{}, false
	}
	return o.v, true
}

// Int returns the Number for n.
func Int(n int64) Number { return Number(strconv.FormatInt(n, 10)) }

// Uint returns the Number for n.
func Uint(n uint64) Number { return Number(strconv.FormatUint(n, 10)) }

// Float returns the Number for f using the shortest exact representation.
// f must be finite; [ValueOf] turns NaN and infinities into strings.
func Float(f float64) Number { return Number(strconv.FormatFloat(f, 'f', -1, 64)) }

// floatValue converts f, formatted at bitSize, to a Number. JSON has no
// NaN or infinity, so those become the strings "NaN", "+Inf" and "-Inf".
func floatValue(f float64, bitSize int) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return String(strconv.FormatFloat(f, 'f', -1, bitSize))
	}
	return Number(strconv.FormatFloat(f, 'f', -1, bitSize))
}

// ParseNumber validates s as a JSON number.
func ParseNumber(s string) (Number, error) {
	if !json.Valid([]byte(s)) || len(s) == 0 || !isNumberStart(s[0]) {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	return Number(s), nil
}

func isNumberStart(c byte) bool { return c == '-' || (c >= '0' && c <= '9') }

// Present reports whether v carries data. Null and empty optionals are not
// present; an optional is present when its wrapped value is.
func Present(v Value) bool {
	switch x := derefValue(v).(type) {
	case Null:
		return false
	case Optional:
		inner, ok := x.Get()
		return ok && Present(inner)
	default:
		return true
	}
}

// unwrap strips optional wrappers. A nil Value is treated as Null.
func unwrap(v Value) Value {
	for {
		switch x := derefValue(v).(type) {
		case Optional:
			v, _ = x.Get()
		default:
			return x
		}
	}
}

// MarshalJSON encodes null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON writes the number text as-is.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// MarshalJSON encodes the wrapped value, or null when empty.
func (o Optional) MarshalJSON() ([]byte, error) {
	v, _ := o.Get()
	return encodeJSON(v)
}

// encodeJSON serializes v compactly with sorted map keys and without HTML
// escaping.
func encodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ValueOf converts a Go value into a [Value]. Values are passed through,
// nil and nil pointers become [Null], scalars map to their scalar variants,
// and anything else goes through encoding/json so json struct tags apply.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return derefValue(v), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Uint(uint64(v)), nil
	case uint8:
		return Uint(uint64(v)), nil
	case uint16:
		return Uint(uint64(v)), nil
	case uint32:
		return Uint(uint64(v)), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return floatValue(float64(v), 32), nil
	case float64:
		return floatValue(v, 64), nil
	case json.Number:
		return ParseNumber(string(v))
	case fmt.Stringer:
		if !isComposite(reflect.TypeOf(v)) {
			if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
				return Null{}, nil
			}
			return String(v.String()), nil
		}
	}

	if _, ok := x.(json.Marshaler); ok {
		return marshalValue(x)
	}
	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null{}, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return floatValue(rv.Float(), 32), nil
	case reflect.Float64:
		return floatValue(rv.Float(), 64), nil
	}
	return marshalValue(x)
}

// derefValue follows pointers to Value implementations, such as *Optional,
// down to the value they hold. A nil pointer is Null.
func derefValue(v Value) Value {
	switch v.(type) {
	case nil:
		return Null{}
	case Null, String, Number, Bool, Map, List, Optional:
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null{}
		}
		rv = rv.Elem()
	}
	if out, ok := rv.Interface().(Value); ok {
		return out
	}
	return Null{}
}

func marshalValue(x any) (Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %s", ErrInvalidValue, x, err)
	}
	return decodeJSON(data)
}

func isComposite(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// decodeJSON parses a JSON document into a Value tree, keeping numbers in
// their literal form.
func decodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}
	return fromJSON(raw), nil
}

// FromAny converts the output of a generic decoder (encoding/json with
// UseNumber, or gopkg.in/yaml.v3) into a Value tree.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case map[string]any, []any, json.Number, string, bool, nil:
		return fromJSON(v), nil
	case map[any]any:
		m := make(Map, len(v))
		for k, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = ev
		}
		return m, nil
	default:
		return ValueOf(raw)
	}
}

func fromJSON(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null{}
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case json.Number:
		return Number(v)
	case map[string]any:
		m := make(Map, len(v))
		for k, e := range v {
			m[k] = fromJSON(e)
		}
		return m
	case []any:
		l := make(List, len(v))
		for i, e := range v {
			l[i] = fromJSON(e)
		}
		return l
	default:
		// yaml.v3 yields native ints and floats and nested non-JSON shapes.
		out, err := FromAny(v)
		if err != nil {
			return String(fmt.Sprint(v))
		}
		return out
	}
}
