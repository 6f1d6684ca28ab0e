package message

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
)

// Context describes the call site of a function invocation.
type Context struct {
	ctx     context.Context
	Locales []string
	Tag     language.Tag // best match for Locales
	Source  string       // source of the calling expression
}

// Context returns the context of the formatting call.
func (c Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}

	return c.ctx
}

// Locale returns the resolved locale as a BCP 47 string.
func (c Context) Locale() string { return c.Tag.String() }

// Options holds the resolved option values of a function call, by name.
type Options map[string]*Value

// String returns the text of option name.
func (o Options) String(name string) (string, bool) {
	v, ok := o[name]
	if !ok || v == nil || v.Kind == KindFallback {
		return "", false
	}

	if n, ok := v.Raw.(*numberValue); ok {
		return n.digits(), true
	}

	return v.String(), true
}

// Int returns option name as an integer. A present option that is not an
// integer is reported as [ErrBadOption].
func (o Options) Int(name string) (int, bool, error) {
	s, ok := o.String(name)
	if !ok {
		return 0, false, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, ErrBadOption.Wrap(err).With(slog.String("option", name))
	}

	return n, true, nil
}

// Function is a registered message function.
//
// Call receives the resolved operand (nil when the expression has none) and
// returns the raw result. Kind tags the result unless Call returns a
// [*Value] of its own. Errors wrapping [ErrBadOperand] or [ErrBadOption]
// are recorded with that kind; any other error is a resolution error.
type Function struct {
	Kind Kind
	Call func(ctx Context, opts Options, operand *Value) (any, error)
}

// Registry is an immutable set of named functions, safe for concurrent use.
type Registry struct {
	funcs map[string]Function
}

// NewRegistry returns a registry holding exactly funcs.
func NewRegistry(funcs map[string]Function) Registry {
	return Registry{funcs: maps.Clone(funcs)}
}

// DefaultRegistry returns a registry with the builtin number, integer and
// string functions.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Function{
		"number":  {Kind: KindNumber, Call: callNumber},
		"integer": {Kind: KindNumber, Call: callInteger},
		"string":  {Kind: KindString, Call: callString},
	})
}

// With returns a copy of r in which funcs shadow existing entries of the
// same name.
func (r Registry) With(funcs map[string]Function) Registry {
	m := make(map[string]Function, len(r.funcs)+len(funcs))
	maps.Copy(m, r.funcs)
	maps.Copy(m, funcs)

	return Registry{funcs: m}
}

// Lookup returns the function registered as name.
func (r Registry) Lookup(name string) (Function, bool) {
	f, ok := r.funcs[name]
	if !ok || f.Call == nil {
		return Function{}, false
	}

	return f, true
}

// Len returns the number of registered functions.
func (r Registry) Len() int { return len(r.funcs) }

// All yields every registered function in name order.
func (r Registry) All() iter.Seq2[string, Function] {
	return func(yield func(string, Function) bool) {
		for _, name := range slices.Sorted(maps.Keys(r.funcs)) {
			if !yield(name, r.funcs[name]) {
				return
			}
		}
	}
}

// Suggest returns registered names resembling name, best match first.
func (r Registry) Suggest(name string) []string {
	const maxSuggestions = 3

	names := slices.Sorted(maps.Keys(r.funcs))
	matches := fuzzy.Find(name, names)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
