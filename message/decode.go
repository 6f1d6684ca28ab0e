package message

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
)

// document is the YAML (or JSON) form of a compiled message.
//
//	declarations: [{name: n, value: {func: number, arg: {var: count}}}]
//	selectors:    [{var: n}]
//	variants:
//	  - keys: [0]
//	    value: [none]
//	  - keys: ["*"]
//	    value: [{var: n}, " items"]
//
// A message with a pattern instead of selectors and variants is a pattern
// message. Bare strings in a pattern are text; bare scalars elsewhere are
// literals. The key "*" is the catch-all.
type document struct {
	Declarations []struct {
		Name  string `yaml:"name"`
		Value any    `yaml:"value"`
	} `yaml:"declarations"`
	Selectors []any `yaml:"selectors"`
	Variants  []struct {
		Keys  []any `yaml:"keys"`
		Value any   `yaml:"value"`
	} `yaml:"variants"`
	Pattern any `yaml:"pattern"`
}

// Decode decodes a compiled message from YAML or JSON. The result is not
// validated; [New] does that.
func Decode(ctx context.Context, data []byte) (Message, error) {
	var doc document

	if err := yaml.UnmarshalContext(ctx, data, &doc, yaml.Strict()); err != nil {
		return nil, ErrMalformed.Wrap(err)
	}

	var d decoder

	decls := make([]Declaration, len(doc.Declarations))
	for i, decl := range doc.Declarations {
		decls[i] = Declaration{Name: decl.Name, Value: d.expression(decl.Value)}
	}

	var msg Message

	if doc.Selectors != nil || doc.Variants != nil {
		if doc.Pattern != nil {
			d.fail("message has both a pattern and variants")
		}

		m := &SelectMessage{Declarations: decls}

		for _, sel := range doc.Selectors {
			m.Selectors = append(m.Selectors, d.expression(sel))
		}

		for _, v := range doc.Variants {
			keys := make([]Key, len(v.Keys))
			for i, k := range v.Keys {
				keys[i] = d.key(k)
			}

			m.Variants = append(m.Variants, Variant{Keys: keys, Value: d.pattern(v.Value)})
		}

		msg = m
	} else {
		msg = &PatternMessage{Declarations: decls, Pattern: d.pattern(doc.Pattern)}
	}

	if d.err != nil {
		return nil, d.err
	}

	return msg, nil
}

// DecodeArgs decodes formatting arguments from a YAML or JSON mapping.
func DecodeArgs(ctx context.Context, data []byte) (Args, error) {
	var args map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &args); err != nil {
		return nil, ErrMalformed.Wrap(err).With(slog.String("input", "args"))
	}

	return Args(args), nil
}

// decoder converts generic YAML values into the data model, keeping the
// first error.
type decoder struct {
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = ErrMalformed.Wrap(fmt.Errorf(format, args...))
	}
}

func (d *decoder) key(v any) Key {
	s, ok := scalar(v)
	if !ok {
		d.fail("variant key %v is not a scalar", v)
	}

	if s == "*" {
		return CatchAll
	}

	return LiteralKey(s)
}

func (d *decoder) pattern(v any) Pattern {
	switch x := v.(type) {
	case nil:
		return nil

	case string:
		return Pattern{Text(x)}

	case []any:
		p := make(Pattern, 0, len(x))

		for _, el := range x {
			if s, ok := el.(string); ok {
				p = append(p, Text(s))
			} else {
				p = append(p, d.element(el))
			}
		}

		return p

	default:
		d.fail("pattern must be a string or a list, got %T", v)

		return nil
	}
}

func (d *decoder) element(v any) Element {
	m, ok := v.(map[string]any)
	if !ok {
		if s, ok := scalar(v); ok {
			return Text(s)
		}

		d.fail("pattern element %v is not text or an expression", v)

		return Text("")
	}

	if kind, ok := m["markup"]; ok {
		return d.markup(kind, m)
	}

	return d.expression(m)
}

func (d *decoder) expression(v any) Expression {
	m, ok := v.(map[string]any)
	if !ok {
		// A bare scalar is a literal.
		s, ok := scalar(v)
		if !ok {
			d.fail("expression %v is not a mapping or scalar", v)

			return nil
		}

		if _, quoted := v.(string); quoted {
			return Lit(s)
		}

		return Num(s)
	}

	switch {
	case has(m, "literal"):
		d.only(m, "literal", "quoted")

		s, ok := scalar(m["literal"])
		if !ok {
			d.fail("literal %v is not a scalar", m["literal"])
		}

		quoted, _ := m["quoted"].(bool)

		return &Literal{Value: s, Quoted: quoted}

	case has(m, "var"):
		d.only(m, "var")

		name, _ := scalar(m["var"])

		return Var(name)

	case has(m, "func"):
		d.only(m, "func", "arg", "options")

		name, _ := scalar(m["func"])
		ref := &FunctionRef{Name: name, Options: d.options(m["options"])}

		if arg, ok := m["arg"]; ok && arg != nil {
			ref.Operand = d.expression(arg)
		}

		return ref

	case has(m, "markup"):
		d.fail("markup is not a value")

		return nil

	default:
		d.fail("expression %v has no literal, var or func", v)

		return nil
	}
}

func (d *decoder) markup(kind any, m map[string]any) *Markup {
	d.only(m, "markup", "name", "options")

	k, _ := scalar(kind)
	name, _ := scalar(m["name"])

	return &Markup{Kind: MarkupKind(k), Name: name, Options: d.options(m["options"])}
}

// options decodes an option mapping in name order.
func (d *decoder) options(v any) []Option {
	if v == nil {
		return nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		d.fail("options must be a mapping, got %T", v)

		return nil
	}

	opts := make([]Option, 0, len(m))
	for _, name := range sortedKeys(m) {
		opts = append(opts, Opt(name, d.expression(m[name])))
	}

	return opts
}

func (d *decoder) only(m map[string]any, fields ...string) {
	for k := range m {
		if !slices.Contains(fields, k) {
			d.fail("unknown field %q", k)
		}
	}
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]

	return ok
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// scalar renders a YAML scalar as text.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
