package extract

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a decoded JSON value of unknown shape.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// NewValue converts the output of a generic JSON decode (nil, bool, float64,
// string, []any, map[string]any) into a Value.
func NewValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case bool:
		return Value{kind: KindBool, b: t}
	case float64:
		return Value{kind: KindNumber, n: t}
	case int:
		return Value{kind: KindNumber, n: float64(t)}
	case int64:
		return Value{kind: KindNumber, n: float64(t)}
	case string:
		return Value{kind: KindString, s: t}
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = NewValue(e)
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = NewValue(e)
		}
		return Value{kind: KindObject, obj: obj}
	}
	return Value{kind: KindString, s: fmt.Sprint(v)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Truthy reports whether v counts as present in a fallback chain:
// null, false, 0, "", [] and {} do not.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	}
	return false
}

// Len is the element count of an array or object, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Field looks up key on an object.
//
// A falsy receiver behaves like an empty object and yields null, as does a
// missing key. A truthy non-object receiver is a shape error.
func (v Value) Field(key string) (Value, error) {
	if v.kind == KindObject {
		return v.obj[key], nil
	}
	if !v.Truthy() {
		return Value{}, nil
	}
	return Value{}, &ShapeError{Want: KindObject, Got: v.kind, At: key}
}

// Index returns element i of an array, or null when out of range.
// A falsy receiver yields null; a truthy non-array is a shape error.
func (v Value) Index(i int) (Value, error) {
	if v.kind == KindArray {
		if i < 0 || i >= len(v.arr) {
			return Value{}, nil
		}
		return v.arr[i], nil
	}
	if !v.Truthy() {
		return Value{}, nil
	}
	return Value{}, &ShapeError{Want: KindArray, Got: v.kind, At: strconv.Itoa(i)}
}

// Path descends through object keys and array indexes in order, using Field
// for string steps and Index for int steps. Descent stops at the first null.
func (v Value) Path(steps ...any) (Value, error) {
	cur := v
	for n, step := range steps {
		if cur.IsNull() {
			return Value{}, nil
		}
		var err error
		switch s := step.(type) {
		case string:
			cur, err = cur.Field(s)
		case int:
			cur, err = cur.Index(s)
		default:
			return Value{}, fmt.Errorf("extract: unsupported path step %T", step)
		}
		if err != nil {
			var se *ShapeError
			if errors.As(err, &se) {
				se.At = joinPath(steps[:n+1])
			}
			return Value{}, err
		}
	}
	return cur, nil
}

// Str returns the string held by v. A null yields "" and any other kind is
// a shape error.
func (v Value) Str() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindNull:
		return "", nil
	}
	return "", &ShapeError{Want: KindString, Got: v.kind}
}

// Int coerces v to an integer. Numbers truncate toward zero, numeric strings
// are parsed, booleans are 1 or 0 and null is 0.
func (v Value) Int() (int, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return 0, &ShapeError{Want: KindNumber, Got: v.kind}
		}
		return truncInt(v.n), nil
	case KindString:
		s := strings.TrimSpace(v.s)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return truncInt(f), nil
		}
	}
	return 0, &ShapeError{Want: KindNumber, Got: v.kind}
}

// truncInt truncates f toward zero, saturating at the int range.
func truncInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// FirstOf walks each path in order and returns the first truthy result, or
// null when none is. Paths after the first truthy hit are never walked, so
// their shape cannot cause an error.
func (v Value) FirstOf(paths ...[]any) (Value, error) {
	for _, p := range paths {
		c, err := v.Path(p...)
		if err != nil {
			return Value{}, err
		}
		if c.Truthy() {
			return c, nil
		}
	}
	return Value{}, nil
}

// ShapeError reports a value of the wrong kind where a traversal expected
// another one.
type ShapeError struct {
	Want Kind
	Got  Kind
	At   string
}

func (e *ShapeError) Error() string {
	if e.At != "" {
		return fmt.Sprintf("at %q: expected %s, got %s", e.At, e.Want, e.Got)
	}
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}

func joinPath(steps []any) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ".")
}
