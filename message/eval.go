package message

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/SkeLLLa/messageformat/log"
)

// call holds the state of one formatting call. It is never shared.
type call struct {
	ctx      context.Context
	reg      Registry
	sink     Sink
	log      log.Logger
	locales  []string
	tag      language.Tag
	scope    *scope
	depth    int
	maxDepth int
}

// record reports a non-fatal error. A panicking sink is ignored.
func (c *call) record(err *Error) {
	c.log.DebugContext(c.ctx, "message error", slog.Any("error", err))

	defer func() { _ = recover() }()

	c.sink(err)
}

func (c *call) funcContext(source string) Context {
	return Context{ctx: c.ctx, Locales: c.locales, Tag: c.tag, Source: source}
}

// eval resolves an expression that can see the first limit declarations.
// It always returns a non-nil value.
func (c *call) eval(expr Expression, limit int) *Value {
	if expr == nil {
		c.record(ErrMalformed.With(slog.String("reason", "nil expression")))

		return Fallback("")
	}

	c.depth++
	defer func() { c.depth-- }()

	if c.maxDepth > 0 && c.depth > c.maxDepth {
		c.record(ErrMaxDepthExceeded.At(expr.Source()).
			With(slog.Int("depth", c.maxDepth)))

		return Fallback(expr.Source())
	}

	switch e := expr.(type) {
	case *Literal:
		return c.evalLiteral(e)

	case *VariableRef:
		return c.evalVariable(e, limit)

	case *FunctionRef:
		return c.evalFunction(e, limit)

	default:
		c.record(ErrMalformed.At(expr.Source()).
			With(slog.String("type", fmt.Sprintf("%T", expr))))

		return Fallback(expr.Source())
	}
}

func (c *call) evalLiteral(l *Literal) *Value {
	if l.Numeric() {
		return c.toValue(l.Source(), Arg{shape: ArgNumber, raw: l.Value})
	}

	return &Value{
		Kind:   KindString,
		Source: l.Source(),
		Locale: c.tag.String(),
		Raw:    l.Value,
	}
}

func (c *call) evalVariable(ref *VariableRef, limit int) *Value {
	source := ref.Source()

	if v := c.toValue(source, c.lookup(ref.Name, limit)); v != nil {
		return v
	}

	c.record(ErrUnresolvedVariable.At(source).
		Wrap(errors.New("variable not available")))

	return Fallback(source)
}

// toValue converts an argument into a value with the given source. Absent
// arguments convert to nil.
func (c *call) toValue(source string, a Arg) *Value {
	switch a.Shape() {
	case ArgAbsent:
		return nil

	case argResolved:
		if a.value.Source == source || a.value.Kind == KindFallback {
			return a.value
		}

		v := *a.value
		v.Source = source

		return &v

	case ArgNumber:
		return c.callDefault("number", KindNumber, source, a.Raw())

	case ArgString:
		return c.callDefault("string", KindString, source, a.Raw())

	case ArgDynamic:
		f := a.Raw().(Formattable)

		var raw any
		if !c.guard(source, func() { raw = f.FormatValue() }) {
			return Fallback(source)
		}

		v := &Value{Kind: KindDynamic, Source: source, Locale: c.tag.String(), Raw: raw}
		if d, ok := f.(Decomposer); ok {
			v.Raw = dynamicValue{value: raw, parts: d}
		}

		return v

	default:
		return Unknown(source, a.Raw())
	}
}

// dynamicValue carries a host value's formatted value and its own
// decomposition.
type dynamicValue struct {
	value any
	parts Decomposer
}

func (d dynamicValue) String() string { return textOf(d.value) }

func (d dynamicValue) Parts(source string) iter.Seq[Part] {
	return d.parts.Parts(source)
}

// Value returns the formatted value supplied by the host.
func (d dynamicValue) Value() any { return d.value }

// callDefault converts a raw host value with a registry default function.
func (c *call) callDefault(name string, kind Kind, source string, raw any) *Value {
	operand := &Value{Kind: kind, Source: source, Locale: c.tag.String(), Raw: raw}

	fn, ok := c.reg.Lookup(name)
	if !ok {
		return operand
	}

	return c.invoke(name, fn, source, Options{}, operand)
}

// evalFunction calls a registered function. The result takes the source
// of the operand, or ":name" without one.
func (c *call) evalFunction(ref *FunctionRef, limit int) *Value {
	source := ":" + ref.Name

	var operand *Value

	if ref.Operand != nil {
		operand = c.eval(ref.Operand, limit)
		source = operand.Source

		if operand.Kind == KindFallback {
			return Fallback(source)
		}
	}

	opts := c.evalOptions(ref.Options, limit)

	fn, ok := c.reg.Lookup(ref.Name)
	if !ok {
		err := ErrUnknownFunction.At(source).With(slog.String("name", ref.Name))
		if s := c.reg.Suggest(ref.Name); len(s) > 0 {
			err = err.Wrap(fmt.Errorf("did you mean %s?", strings.Join(s, ", ")))
		}

		c.record(err)

		return Fallback(source)
	}

	return c.invoke(ref.Name, fn, source, opts, operand)
}

func (c *call) evalOptions(opts []Option, limit int) Options {
	if len(opts) == 0 {
		return Options{}
	}

	out := make(Options, len(opts))
	for _, opt := range opts {
		out[opt.Name] = c.eval(opt.Value, limit)
	}

	return out
}

// markupOptions resolves markup options to their text. Failed options are
// left out.
func (c *call) markupOptions(m *Markup) map[string]string {
	if len(m.Options) == 0 {
		return nil
	}

	out := make(map[string]string, len(m.Options))

	for name, v := range c.evalOptions(m.Options, len(c.scope.slots)) {
		if v.Kind == KindFallback {
			continue
		}

		c.guard(v.Source, func() { out[name] = v.String() })
	}

	return out
}

// guard runs fn, which calls into host code. A panic is recorded as a
// resolution error at source and reported as false.
func (c *call) guard(source string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.record(ErrResolution.At(source).Wrap(fmt.Errorf("panic: %v", r)))

			ok = false
		}
	}()

	fn()

	return true
}

// render expands v into parts. A value whose host code panics while
// rendering becomes a fallback.
func (c *call) render(v *Value) []Part {
	var parts []Part

	if !c.guard(v.Source, func() {
		for p := range v.Parts() {
			parts = append(parts, p)
		}
	}) {
		return slices.Collect(Fallback(v.Source).Parts())
	}

	return parts
}

// invoke calls fn and wraps its result. Errors and panics are recorded and
// reduce to a fallback value.
func (c *call) invoke(
	name string,
	fn Function,
	source string,
	opts Options,
	operand *Value,
) (v *Value) {
	defer func() {
		if r := recover(); r != nil {
			c.record(ErrResolution.At(source).
				Wrap(fmt.Errorf("panic: %v", r)).
				With(slog.String("function", name)))

			v = Fallback(source)
		}
	}()

	raw, err := fn.Call(c.funcContext(source), opts, operand)
	if err != nil {
		c.record(classify(err).At(source).With(slog.String("function", name)))

		return Fallback(source)
	}

	c.log.TraceContext(c.ctx, "function call",
		slog.String("function", name),
		slog.String("source", source),
	)

	if rv, ok := raw.(*Value); ok && rv != nil {
		out := *rv
		out.Source = source

		if out.Kind == "" {
			out.Kind = fn.Kind
		}

		if out.Locale == "" {
			out.Locale = c.tag.String()
		}

		return &out
	}

	kind := fn.Kind
	if kind == "" {
		kind = KindUnknown
	}

	return &Value{Kind: kind, Source: source, Locale: c.tag.String(), Raw: raw}
}

// classify maps a function error onto an error kind.
func classify(err error) *Error {
	var kind ErrorKind

	switch {
	case errors.Is(err, ErrBadOperand):
		kind = KindBadOperand
	case errors.Is(err, ErrBadOption):
		kind = KindBadOption
	default:
		return ErrResolution.Wrap(err)
	}

	if e, ok := err.(*Error); ok {
		return e
	}

	return &Error{kind: kind, err: err}
}
