package message

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Validate reports every structural error of msg, joined. All returned
// errors are fatal (see [Error.Fatal]).
func Validate(msg Message) error {
	if isNil(msg) {
		return ErrMalformed.With(slog.String("reason", "nil message"))
	}

	var v validator

	v.declarations(msg.declarations())

	switch m := msg.(type) {
	case *PatternMessage:
		v.pattern(m.Pattern, "pattern")

	case *SelectMessage:
		v.selectMessage(m)

	default:
		v.add(ErrMalformed.With(slog.String("type", fmt.Sprintf("%T", msg))))
	}

	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) add(err error) { v.errs = append(v.errs, err) }

func (v *validator) declarations(decls []Declaration) {
	seen := make(map[string]bool, len(decls))

	for i, d := range decls {
		where := slog.Int("declaration", i)

		if d.Name == "" {
			v.add(ErrMalformed.With(where, slog.String("reason", "empty name")))
		} else if seen[d.Name] {
			v.add(ErrDuplicateDeclaration.At("$" + d.Name).With(where))
		}

		seen[d.Name] = true

		v.expression(d.Value, false, "declaration $"+d.Name)
	}
}

func (v *validator) selectMessage(m *SelectMessage) {
	if len(m.Selectors) == 0 {
		v.add(ErrNoSelectors)
	}

	for i, sel := range m.Selectors {
		v.expression(sel, false, fmt.Sprintf("selector %d", i))
	}

	seen := make(map[string]bool, len(m.Variants))
	fallback := false

	for i, variant := range m.Variants {
		where := slog.Int("variant", i)
		tuple := keyString(variant.Keys)

		if len(variant.Keys) != len(m.Selectors) {
			v.add(ErrKeyMismatch.At(tuple).With(where,
				slog.Int("keys", len(variant.Keys)),
				slog.Int("selectors", len(m.Selectors)),
			))
		}

		// Keys are joined unambiguously; a literal "*" key is distinct from
		// the catch-all.
		id := variantID(variant.Keys)
		if seen[id] {
			v.add(ErrDuplicateVariant.At(tuple).With(where))
		}

		seen[id] = true

		if isCatchAll(variant.Keys) {
			fallback = true
		}

		v.pattern(variant.Value, fmt.Sprintf("variant %d", i))
	}

	if !fallback {
		v.add(ErrMissingFallback.With(slog.Int("variants", len(m.Variants))))
	}
}

func variantID(keys []Key) string {
	var sb strings.Builder

	for _, k := range keys {
		if k.CatchAll {
			sb.WriteString("*\x00")
		} else {
			sb.WriteString("=" + k.Value + "\x00")
		}
	}

	return sb.String()
}

func (v *validator) pattern(p Pattern, where string) {
	for i, el := range p {
		switch e := el.(type) {
		case Text:
		case Expression:
			v.expression(e, true, fmt.Sprintf("%s element %d", where, i))
		default:
			v.add(ErrMalformed.With(
				slog.String("where", where),
				slog.Int("element", i),
				slog.String("type", fmt.Sprintf("%T", el)),
			))
		}
	}
}

func (v *validator) expression(e Expression, markup bool, where string) {
	if isNil(e) {
		v.add(ErrMalformed.With(
			slog.String("where", where),
			slog.String("reason", "nil expression"),
		))

		return
	}

	malformed := func(reason string) {
		v.add(ErrMalformed.At(e.Source()).With(
			slog.String("where", where),
			slog.String("reason", reason),
		))
	}

	switch x := e.(type) {
	case *Literal:

	case *VariableRef:
		if x.Name == "" {
			malformed("empty variable name")
		}

	case *FunctionRef:
		if x.Name == "" {
			malformed("empty function name")
		}

		if x.Operand != nil {
			v.expression(x.Operand, false, where)
		}

		v.options(x.Options, e.Source(), where)

	case *Markup:
		if !markup {
			malformed("markup is not a value")
		}

		if x.Name == "" {
			malformed("empty markup name")
		}

		switch x.Kind {
		case MarkupOpen, MarkupClose, MarkupStandalone:
		default:
			malformed("unknown markup kind " + string(x.Kind))
		}

		v.options(x.Options, e.Source(), where)

	default:
		malformed(fmt.Sprintf("unknown expression %T", e))
	}
}

func (v *validator) options(opts []Option, source, where string) {
	seen := make(map[string]bool, len(opts))

	for _, opt := range opts {
		if opt.Name == "" {
			v.add(ErrMalformed.At(source).With(
				slog.String("where", where),
				slog.String("reason", "empty option name"),
			))
		} else if seen[opt.Name] {
			v.add(ErrDuplicateOption.At(source).With(slog.String("option", opt.Name)))
		}

		seen[opt.Name] = true

		v.expression(opt.Value, false, where+" option "+opt.Name)
	}
}

// isNil reports whether x is nil or a typed nil pointer.
func isNil(x any) bool {
	if x == nil {
		return true
	}

	rv := reflect.ValueOf(x)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
