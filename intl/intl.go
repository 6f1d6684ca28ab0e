package intl

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/SkeLLLa/messageformat/message"
)

// config holds the options of a function set.
type config struct {
	items    map[string]message.Function
	location *time.Location
}

// Option configures the function set returned by [Functions].
type Option func(*config)

// WithItemFunction registers fn under name for use as the each option of
// the list function. Each list item is passed to fn as a string operand.
func WithItemFunction(name string, fn message.Function) Option {
	return func(c *config) {
		if fn.Call == nil {
			delete(c.items, name)

			return
		}

		c.items[name] = fn
	}
}

// WithLocation sets the time zone datetime values are displayed in.
// A nil location keeps each value's own zone.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		c.location = loc
	}
}

// Functions returns the intl function set:
//
//	plural    number selecting by cardinal plural category
//	ordinal   number selecting by ordinal plural category
//	select    string selecting by exact match
//	percent   number scaled by 100 with a percent sign
//	currency  amount in the currency named by the currency option
//	list      conjunction or disjunction of a list operand
//	datetime  time value laid out with a named or Go reference layout
func Functions(opts ...Option) map[string]message.Function {
	c := config{items: map[string]message.Function{}}
	for _, opt := range opts {
		opt(&c)
	}

	base := message.DefaultRegistry()
	number, _ := base.Lookup("number")
	str, _ := base.Lookup("string")

	return map[string]message.Function{
		"plural":   selectNumber(number, message.SelectPlural),
		"ordinal":  selectNumber(number, message.SelectOrdinal),
		"select":   {Kind: message.KindString, Call: str.Call},
		"percent":  {Kind: message.KindNumber, Call: percent(number)},
		"currency": {Kind: message.KindNumber, Call: currencyAmount(number)},
		"list":     {Kind: KindList, Call: list(maps.Clone(c.items))},
		"datetime": {Kind: KindDateTime, Call: datetime(c.location)},
	}
}

// Registry returns the default registry extended with [Functions].
func Registry(opts ...Option) message.Registry {
	return message.DefaultRegistry().With(Functions(opts...))
}

// Names returns the names of the intl functions in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(Functions()))
}

// selectNumber wraps the number function with a fixed select option.
func selectNumber(number message.Function, mode string) message.Function {
	return message.Function{
		Kind: message.KindNumber,
		Call: func(ctx message.Context, opts message.Options, operand *message.Value) (any, error) {
			o := maps.Clone(opts)
			if o == nil {
				o = message.Options{}
			}

			o["select"] = &message.Value{Kind: message.KindString, Raw: mode}

			return number.Call(ctx, o, operand)
		},
	}
}

// baseLanguage returns the lower-case ISO 639 code of the call locale.
func baseLanguage(ctx message.Context) string {
	base, _ := ctx.Tag.Base()

	return strings.ToLower(base.String())
}
