package message

import (
	"fmt"
	"iter"
	"strconv"
)

// Kind tags a resolved [Value]. Functions may declare custom kinds.
type Kind string

const (
	KindNumber   Kind = "number"
	KindString   Kind = "string"
	KindDynamic  Kind = "dynamic"
	KindFallback Kind = "fallback"
	KindUnknown  Kind = "unknown"
)

// Part types emitted by [MessageFormat.FormatToParts]. Decomposed values
// also emit their own fragment types (for example "integer" or "decimal").
const (
	PartLiteral  = "literal"
	PartValue    = "value"
	PartFallback = "fallback"
	PartMarkup   = "markup"
	PartDynamic  = "dynamic"
)

// Part is one unit of formatted output. Parts are fresh per call.
type Part struct {
	Type   string `json:"type"             yaml:"type"`
	Kind   Kind   `json:"kind,omitempty"   yaml:"kind,omitempty"`
	Value  string `json:"value"            yaml:"value"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Markup parts only.
	Name    string            `json:"name,omitempty"    yaml:"name,omitempty"`
	Markup  MarkupKind        `json:"markup,omitempty"  yaml:"markup,omitempty"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Decomposer may be implemented by a value's raw value to split its text
// into typed fragments. Parts must return a finite sequence and may be
// called any number of times; the concatenated fragment values must equal
// the value's text. Each fragment should carry the given source.
type Decomposer interface {
	Parts(source string) iter.Seq[Part]
}

// KeySelector may be implemented by a value's raw value to take part in
// variant selection. SelectKeys returns the subset of keys that match,
// most preferred first.
type KeySelector interface {
	SelectKeys(keys []string) []string
}

// Value is the resolved result of an expression.
type Value struct {
	Kind   Kind
	Source string // expression text as written, e.g. "$user.name"
	Locale string
	Raw    any
}

// Fallback returns the placeholder value substituted for a failed
// expression with the given source.
func Fallback(source string) *Value {
	return &Value{Kind: KindFallback, Source: source}
}

// Unknown wraps an opaque raw value.
func Unknown(source string, raw any) *Value {
	return &Value{Kind: KindUnknown, Source: source, Raw: raw}
}

// String returns the text rendering of v. Fallback values render as their
// source framed in braces.
func (v *Value) String() string {
	if v == nil {
		return ""
	}

	if v.Kind == KindFallback {
		return "{" + v.Source + "}"
	}

	return textOf(v.Raw)
}

// Parts yields the fragments of v. Values whose raw value does not implement
// [Decomposer] yield a single fragment holding the text rendering, typed
// "fallback", "dynamic" or "value" by kind.
func (v *Value) Parts() iter.Seq[Part] {
	if v == nil {
		return func(func(Part) bool) {}
	}

	if d, ok := v.Raw.(Decomposer); ok && v.Kind != KindFallback {
		return func(yield func(Part) bool) {
			for p := range d.Parts(v.Source) {
				if p.Kind == "" {
					p.Kind = v.Kind
				}

				if !yield(p) {
					return
				}
			}
		}
	}

	typ := PartValue

	switch v.Kind {
	case KindFallback:
		typ = PartFallback
	case KindDynamic:
		typ = PartDynamic
	}

	return func(yield func(Part) bool) {
		yield(Part{Type: typ, Kind: v.Kind, Value: v.String(), Source: v.Source})
	}
}

// Selectable reports whether v can take part in variant selection.
func (v *Value) Selectable() bool {
	if v == nil || v.Kind == KindFallback {
		return false
	}

	if _, ok := v.Raw.(KeySelector); ok {
		return true
	}

	return v.Kind == KindString
}

// SelectKeys returns the keys matching v, most preferred first. Values
// without a [KeySelector] match by exact text when they are strings and
// match nothing otherwise.
func (v *Value) SelectKeys(keys []string) []string {
	if v == nil || v.Kind == KindFallback {
		return nil
	}

	if s, ok := v.Raw.(KeySelector); ok {
		return s.SelectKeys(keys)
	}

	if v.Kind != KindString {
		return nil
	}

	text := v.String()
	for _, k := range keys {
		if k == text {
			return []string{k}
		}
	}

	return nil
}

// textOf renders a raw value as text.
func textOf(raw any) string {
	switch x := raw.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}
