package intl

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"strings"

	"github.com/SkeLLLa/messageformat/message"
)

// Value kinds of the list and datetime functions.
const (
	KindList     message.Kind = "list"
	KindDateTime message.Kind = "datetime"
)

// List types and styles accepted by the list function.
const (
	ListConjunction = "conjunction"
	ListDisjunction = "disjunction"
	ListUnit        = "unit"

	StyleLong   = "long"
	StyleShort  = "short"
	StyleNarrow = "narrow"
)

const defaultSeparator = ", "

// connectors are the words joining the last two items of a list.
type connectors struct {
	and    string
	or     string
	short  string // conjunction in the short style, if different
	serial bool   // keep the separator before the last connector
}

var listWords = map[string]connectors{
	"en": {and: "and", or: "or", short: "&", serial: true},
	"de": {and: "und", or: "oder"},
	"es": {and: "y", or: "o"},
	"fr": {and: "et", or: "ou"},
	"it": {and: "e", or: "o"},
	"nl": {and: "en", or: "of"},
	"pt": {and: "e", or: "ou"},
	"ro": {and: "și", or: "sau"},
}

var errNoListData = errors.New("no list data for locale")

// listOptions are the resolved options of a list call.
type listOptions struct {
	typ  string
	sep  string
	last string
	pair string
	each string
}

func parseListOptions(ctx message.Context, opts message.Options) (listOptions, error) {
	o := listOptions{typ: ListConjunction, sep: defaultSeparator}

	if s, ok := opts.String("type"); ok {
		switch s {
		case ListConjunction, ListDisjunction, ListUnit:
			o.typ = s
		default:
			return o, message.ErrBadOption.With(slog.String("option", "type"), slog.String("value", s))
		}
	}

	style := StyleLong
	if s, ok := opts.String("style"); ok {
		switch s {
		case StyleLong, StyleShort, StyleNarrow:
			style = s
		default:
			return o, message.ErrBadOption.With(slog.String("option", "style"), slog.String("value", s))
		}
	}

	if s, ok := opts.String("separator"); ok {
		o.sep = s
	}

	o.each, _ = opts.String("each")

	if s, ok := opts.String("last"); ok {
		o.last = s
	} else if o.typ != ListUnit && style != StyleNarrow {
		words, ok := listWords[baseLanguage(ctx)]
		if !ok {
			return o, errNoListData
		}

		word := words.and
		if o.typ == ListDisjunction {
			word = words.or
		} else if style == StyleShort && words.short != "" {
			word = words.short
		}

		o.pair = " " + word + " "
		o.last = o.pair
		if words.serial {
			o.last = strings.TrimRight(o.sep, " ") + o.pair
		}
	}

	if o.last == "" {
		o.last = o.sep
	}

	if o.pair == "" {
		o.pair = o.last
	}

	if s, ok := opts.String("pair"); ok {
		o.pair = s
	}

	return o, nil
}

// listValue is a formatted list. It decomposes into "element" and
// "literal" parts.
type listValue struct {
	items []string
	opts  listOptions
}

// String returns the joined list.
func (l listValue) String() string {
	var sb strings.Builder
	for p := range l.Parts("") {
		sb.WriteString(p.Value)
	}

	return sb.String()
}

// Parts implements [message.Decomposer].
func (l listValue) Parts(source string) iter.Seq[message.Part] {
	return func(yield func(message.Part) bool) {
		n := len(l.items)

		for i, item := range l.items {
			if i > 0 {
				sep := l.opts.sep

				switch {
				case n == 2:
					sep = l.opts.pair
				case i == n-1:
					sep = l.opts.last
				}

				if !yield(message.Part{Type: message.PartLiteral, Value: sep, Source: source}) {
					return
				}
			}

			if !yield(message.Part{Type: "element", Value: item, Source: source}) {
				return
			}
		}
	}
}

func list(items map[string]message.Function) func(message.Context, message.Options, *message.Value) (any, error) {
	return func(ctx message.Context, opts message.Options, operand *message.Value) (any, error) {
		if operand == nil {
			return nil, message.ErrBadOperand.Wrap(errors.New("missing operand"))
		}

		o, err := parseListOptions(ctx, opts)
		if err != nil {
			return nil, err
		}

		var each *message.Function

		if o.each != "" {
			fn, ok := items[o.each]
			if !ok {
				return nil, message.ErrBadOption.
					Wrap(fmt.Errorf("list item function not found: %s", o.each)).
					With(slog.String("option", "each"))
			}

			each = &fn
		}

		var out []string

		for item := range elements(operand.Raw) {
			text := (&message.Value{Raw: item}).String()

			if each != nil {
				res, err := each.Call(ctx, nil, &message.Value{
					Kind:   message.KindString,
					Source: operand.Source,
					Locale: ctx.Locale(),
					Raw:    text,
				})
				if err != nil {
					return nil, err
				}

				text = textOf(res)
			}

			out = append(out, text)
		}

		return listValue{items: out, opts: o}, nil
	}
}

// elements yields the items of a slice or array, or raw itself.
func elements(raw any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if b, ok := raw.([]byte); ok {
			yield(string(b))

			return
		}

		rv := reflect.ValueOf(raw)

		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}

			return

		case reflect.Invalid:
			return
		}

		yield(raw)
	}
}

// textOf renders a function result as text.
func textOf(res any) string {
	if v, ok := res.(*message.Value); ok {
		return v.String()
	}

	return (&message.Value{Raw: res}).String()
}
