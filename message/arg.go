package message

import (
	"encoding/json"
	"iter"
	"reflect"
	"strings"
)

// Args maps argument names to host values. Each value is converted with
// [ArgOf] when it is first looked up.
type Args map[string]any

// Formattable may be implemented by a host argument to supply its own
// formatted value. Such arguments resolve to [KindDynamic] values whose raw
// value is FormatValue(). If the Formattable also implements [Decomposer],
// that decomposition is used for its parts.
type Formattable interface {
	FormatValue() any
}

// ArgShape enumerates the accepted host argument shapes.
type ArgShape uint8

const (
	ArgAbsent ArgShape = iota
	ArgNumber
	ArgString
	ArgDynamic
	ArgObject
	argResolved
)

// String returns a lower-case name for the shape.
func (s ArgShape) String() string {
	switch s {
	case ArgAbsent:
		return "absent"
	case ArgNumber:
		return "number"
	case ArgString:
		return "string"
	case ArgDynamic:
		return "dynamic"
	case ArgObject:
		return "object"
	case argResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Arg is a host argument converted to one of a closed set of shapes.
// Numbers hold an int64, uint64, float64 or [json.Number]; strings hold a
// string; dynamic and object arguments hold the host value.
type Arg struct {
	shape ArgShape
	raw   any
	value *Value // argResolved only
}

// Shape returns the argument shape.
func (a Arg) Shape() ArgShape { return a.shape }

// Raw returns the canonical raw value.
func (a Arg) Raw() any {
	if a.shape == argResolved {
		return a.value.Raw
	}

	return a.raw
}

// IsAbsent reports whether the argument has no value.
func (a Arg) IsAbsent() bool { return a.shape == ArgAbsent }

func resolvedArg(v *Value) Arg {
	if v == nil {
		return Arg{}
	}

	return Arg{shape: argResolved, value: v}
}

// ArgOf converts a host value into an [Arg]. Pointers are dereferenced and
// named numeric or string types are unwrapped to their underlying kind.
func ArgOf(v any) Arg {
	switch x := v.(type) {
	case nil:
		return Arg{}
	case Arg:
		return x
	case *Value:
		// Values built by the host are opaque; only values resolved within
		// a call are treated as already resolved.
		if x == nil {
			return Arg{}
		}

		return Arg{shape: ArgObject, raw: x}
	case Formattable:
		return Arg{shape: ArgDynamic, raw: x}
	case string:
		return Arg{shape: ArgString, raw: x}
	case []byte:
		return Arg{shape: ArgString, raw: string(x)}
	case json.Number:
		return Arg{shape: ArgNumber, raw: x}
	case int:
		return Arg{shape: ArgNumber, raw: int64(x)}
	case int64:
		return Arg{shape: ArgNumber, raw: x}
	case float64:
		return Arg{shape: ArgNumber, raw: x}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Arg{}
		}

		rv = rv.Elem()
		if rv.CanInterface() {
			if f, ok := rv.Interface().(Formattable); ok {
				return Arg{shape: ArgDynamic, raw: f}
			}
		}
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Arg{shape: ArgNumber, raw: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Arg{shape: ArgNumber, raw: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return Arg{shape: ArgNumber, raw: rv.Float()}
	case reflect.String:
		return Arg{shape: ArgString, raw: rv.String()}
	case reflect.Invalid:
		return Arg{}
	default:
		if !rv.CanInterface() {
			return Arg{}
		}

		return Arg{shape: ArgObject, raw: rv.Interface()}
	}
}

// member returns the field or entry name of obj, where obj is a map with
// string keys or a struct. Pointers and interfaces are followed.
func member(obj any, name string) (any, bool) {
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]

		return v, ok
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		e := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !e.IsValid() || !e.CanInterface() {
			return nil, false
		}

		return e.Interface(), true

	case reflect.Struct:
		f, ok := rv.Type().FieldByName(name)
		if !ok || !f.IsExported() {
			return nil, false
		}

		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			return nil, false
		}

		return fv.Interface(), true

	default:
		return nil, false
	}
}

// prefixes yields every strict dotted prefix of name, longest first, with
// the remaining suffix.
func prefixes(name string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name[:i], '.') {
			if !yield(name[:i], name[i+1:]) {
				return
			}
		}
	}
}

// lookupPath resolves a dotted name within obj, preferring the longest
// matching key at each level.
func lookupPath(obj any, name string) (any, bool) {
	if v, ok := member(obj, name); ok {
		return v, true
	}

	for head, tail := range prefixes(name) {
		if v, ok := member(obj, head); ok {
			return lookupPath(v, tail)
		}
	}

	return nil, false
}
