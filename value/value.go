// Package value implements the JSON document model the jsonquery engine
// operates over: an immutable tagged union of null, bool, number, string,
// array and object, with objects preserving insertion order.
//
// The engine never mutates a Value; compiled paths hold borrowed
// references into a document for the lifetime of that document.
package value

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies which variant of the tagged union a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String renders the Kind name, mainly for error messages and debugging.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Num is a JSON number. It remembers whether it was produced from an
// integer literal so round-tripping to text doesn't grow a spurious ".0",
// while still comparing equal to a floating value of the same magnitude.
type Num struct {
	f     float64
	i     int64
	isInt bool
}

// IntNum builds a Num from an integer.
func IntNum(i int64) Num { return Num{f: float64(i), i: i, isInt: true} }

// FloatNum builds a Num from a float64.
func FloatNum(f float64) Num { return Num{f: f} }

// Float64 returns the number as a float64, regardless of how it was built.
func (n Num) Float64() float64 { return n.f }

// Int64 returns the integer value and true if this Num was built from an
// integer (or a float with no fractional part).
func (n Num) Int64() (int64, bool) {
	if n.isInt {
		return n.i, true
	}
	if n.f == math.Trunc(n.f) && !math.IsInf(n.f, 0) {
		return int64(n.f), true
	}
	return 0, false
}

// Equal reports whether two numbers denote the same magnitude.
func (n Num) Equal(o Num) bool { return n.f == o.f }

// Less reports whether n < o by numeric value.
func (n Num) Less(o Num) bool { return n.f < o.f }

func (n Num) String() string {
	if n.isInt {
		return fmt.Sprintf("%d", n.i)
	}
	return fmt.Sprintf("%g", n.f)
}

// Value is the immutable JSON tagged union described in the data model.
type Value struct {
	kind Kind
	b    bool
	num  Num
	str  string
	arr  []Value
	obj  *Obj
}

// NullValue is the singleton JSON null.
var NullValue = Value{kind: Null}

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a Num.
func NumberValue(n Num) Value { return Value{kind: Number, num: n} }

// IntValue is a convenience for NumberValue(IntNum(i)).
func IntValue(i int64) Value { return NumberValue(IntNum(i)) }

// FloatValue is a convenience for NumberValue(FloatNum(f)).
func FloatValue(f float64) Value { return NumberValue(FloatNum(f)) }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue wraps an ordered sequence of Values. The slice is taken by
// reference; callers should not mutate it afterwards.
func ArrayValue(elems []Value) Value { return Value{kind: Array, arr: elems} }

// ObjectValue wraps an ordered Obj.
func ObjectValue(o *Obj) Value { return Value{kind: Object, obj: o} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload and whether v is actually a Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// NumberVal returns the numeric payload and whether v is actually a Number.
func (v Value) NumberVal() (Num, bool) { return v.num, v.kind == Number }

// Str returns the string payload and whether v is actually a String.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// Elements returns the array payload and whether v is actually an Array.
func (v Value) Elements() ([]Value, bool) { return v.arr, v.kind == Array }

// Fields returns the object payload and whether v is actually an Object.
func (v Value) Fields() (*Obj, bool) { return v.obj, v.kind == Object }

// Len reports the length of a String/Array/Object value (codepoint count
// for strings, element count for arrays, member count for objects). The
// second return is false for Null/Bool/Number, which have no length.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case String:
		n := 0
		for range v.str {
			n++
		}
		return n, true
	case Array:
		return len(v.arr), true
	case Object:
		return v.obj.Len(), true
	default:
		return 0, false
	}
}

// String renders v for logging and debugging: scalars render their own
// textual form, arrays and objects render a compact JSON-like summary.
// It is not a round-trippable serialization; use a real encoder for that.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return v.num.String()
	case String:
		return v.str
	case Array:
		parts := make([]string, len(v.arr))
		for i, el := range v.arr {
			parts[i] = el.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case Object:
		parts := make([]string, 0, v.obj.Len())
		for _, k := range v.obj.Keys() {
			child, _ := v.obj.Get(k)
			parts = append(parts, k+":"+child.String())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}

// Equal reports deep equality between two Values, matching JSONPath's `==`
// semantics for scalars, arrays and objects. Array elements are compared in
// order; object members are compared by key, regardless of their order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.num.Equal(b.num)
	case String:
		return a.str == b.str
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		return a.obj.Equal(b.obj)
	default:
		return false
	}
}

// Obj is an insertion-ordered mapping from string keys to Values. The
// zero value is not valid; use NewObj or NewObjFromPairs.
type Obj struct {
	keys   []string
	values map[string]Value
}

// NewObj returns an empty, ready-to-populate-via-Set Obj. Obj is built up
// once at construction time and treated as immutable afterwards by the
// engine.
func NewObj() *Obj {
	return &Obj{values: make(map[string]Value)}
}

// NewObjFromPairs builds an Obj from key/value pairs in the given order,
// the ordered equivalent of map literal construction. A repeated key
// overwrites the earlier value but keeps its original position, matching
// standard JSON-object insertion semantics.
func NewObjFromPairs(keys []string, vals []Value) *Obj {
	o := NewObj()
	for i, k := range keys {
		o.Set(k, vals[i])
	}
	return o
}

// Set inserts or updates a key. New keys are appended to the iteration
// order; existing keys keep their original position.
func (o *Obj) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get looks up a key, returning its value and whether it was present.
func (o *Obj) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in insertion order. Callers must not
// mutate the returned slice.
func (o *Obj) Keys() []string { return o.keys }

// Len returns the number of members.
func (o *Obj) Len() int { return len(o.keys) }

// Equal reports deep equality, ignoring member order (two objects with
// the same members in different order are still `==`-equal).
func (o *Obj) Equal(other *Obj) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.keys {
		v, ok := other.Get(k)
		if !ok {
			return false
		}
		if !Equal(o.values[k], v) {
			return false
		}
	}
	return true
}
