package graph

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	// KindNone is the zero Value. Storing it removes the attribute.
	KindNone Kind = iota
	KindNumber
	KindText
	KindBool
	KindObject
	KindArray
)

var kindNames = [...]string{
	KindNone:   "none",
	KindNumber: "number",
	KindText:   "text",
	KindBool:   "bool",
	KindObject: "object",
	KindArray:  "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamically typed attribute value: a number, text, boolean,
// opaque object, or array of values. Consumers switch on [Value.Kind] rather
// than type-asserting an interface.
//
// The zero Value is [None].
type Value struct {
	kind Kind
	num  float64
	text string
	flag bool
	obj  any
	arr  []Value
}

// None is the absent value.
var None = Value{}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a string Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Object wraps an arbitrary Go value. A nil object is [None].
func Object(v any) Value {
	if v == nil {
		return None
	}
	return Value{kind: KindObject, obj: v}
}

// Array returns an array Value holding a copy of vs.
func Array(vs ...Value) Value {
	arr := make([]Value, len(vs))
	copy(arr, vs)
	return Value{kind: KindArray, arr: arr}
}

// ValueOf converts a plain Go value to a Value. Numeric types become numbers,
// strings text, bools booleans, slices arrays; anything else is an object.
// A Value passes through unchanged and nil becomes [None].
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return None
	case Value:
		return x
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Text(x.String())
		}
		return Number(f)
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	case []Value:
		return Array(x...)
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			arr[i] = ValueOf(e)
		}
		return Value{kind: KindArray, arr: arr}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		arr := make([]Value, rv.Len())
		for i := range arr {
			arr[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{kind: KindArray, arr: arr}
	}
	return Object(v)
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the absent value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Number returns the numeric content of v.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string content of v.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Bool returns the boolean content of v.
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// Object returns the wrapped Go value of an object Value.
func (v Value) Object() (any, bool) { return v.obj, v.kind == KindObject }

// Array returns a copy of the elements of an array Value.
func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// Len returns the number of elements of an array Value, 0 otherwise.
func (v Value) Len() int { return len(v.arr) }

// Any converts v back to a plain Go value: float64, string, bool, []any, the
// wrapped object, or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	case KindObject:
		return v.obj
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Any()
		}
		return out
	}
	return nil
}

// Equal reports whether v and o hold the same variant and content.
// Objects are compared with reflect.DeepEqual.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.flag == o.flag
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(v.obj, o.obj)
}

// String formats v for logs and labels.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v.obj)
}

// MarshalJSON encodes v as its plain JSON counterpart. None encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes any JSON value. Objects decode as map[string]any.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}
