package intl

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/SkeLLLa/messageformat/message"
)

// numeric is implemented by the values of the number function.
type numeric interface {
	Number() any
}

// amount is formatted number text that selects like the number it was
// made from.
type amount struct {
	text string
	sel  message.KeySelector
}

func (a amount) String() string { return a.text }

// SelectKeys implements [message.KeySelector].
func (a amount) SelectKeys(keys []string) []string {
	if a.sel == nil {
		return nil
	}

	return a.sel.SelectKeys(keys)
}

// numberOf resolves operand with the number function.
func numberOf(
	fn message.Function, ctx message.Context, operand *message.Value,
) (any, message.KeySelector, error) {
	raw, err := fn.Call(ctx, nil, operand)
	if err != nil {
		return nil, nil, err
	}

	n, ok := raw.(numeric)
	if !ok {
		return nil, nil, message.ErrBadOperand.Wrap(fmt.Errorf("not a number: %v", raw))
	}

	sel, _ := raw.(message.KeySelector)

	return n.Number(), sel, nil
}

// fractionDigits reads the fraction digit options shared by percent and
// currency.
func fractionDigits(opts message.Options) ([]number.Option, error) {
	var out []number.Option

	if n, ok, err := opts.Int("minimumFractionDigits"); err != nil {
		return nil, err
	} else if ok {
		out = append(out, number.MinFractionDigits(n))
	}

	if n, ok, err := opts.Int("maximumFractionDigits"); err != nil {
		return nil, err
	} else if ok {
		out = append(out, number.MaxFractionDigits(n))
	}

	return out, nil
}

func percent(fn message.Function) func(message.Context, message.Options, *message.Value) (any, error) {
	return func(ctx message.Context, opts message.Options, operand *message.Value) (any, error) {
		num, sel, err := numberOf(fn, ctx, operand)
		if err != nil {
			return nil, err
		}

		digits, err := fractionDigits(opts)
		if err != nil {
			return nil, err
		}

		text := xmessage.NewPrinter(ctx.Tag).Sprint(number.Percent(num, digits...))

		return amount{text: text, sel: sel}, nil
	}
}

func currencyAmount(fn message.Function) func(message.Context, message.Options, *message.Value) (any, error) {
	return func(ctx message.Context, opts message.Options, operand *message.Value) (any, error) {
		num, sel, err := numberOf(fn, ctx, operand)
		if err != nil {
			return nil, err
		}

		unit, err := currencyUnit(ctx, opts)
		if err != nil {
			return nil, err
		}

		var format currency.Formatter

		display, _ := opts.String("currencyDisplay")

		switch display {
		case "", "symbol":
			format = currency.Symbol
		case "narrowSymbol":
			format = currency.NarrowSymbol
		case "code":
			format = currency.ISO
		default:
			return nil, message.ErrBadOption.With(
				slog.String("option", "currencyDisplay"),
				slog.String("value", display),
			)
		}

		text := xmessage.NewPrinter(ctx.Tag).Sprint(format(unit.Amount(num)))

		return amount{text: text, sel: sel}, nil
	}
}

// currencyUnit returns the currency named by the currency option, or the
// currency of the call locale's region.
func currencyUnit(ctx message.Context, opts message.Options) (currency.Unit, error) {
	if code, ok := opts.String("currency"); ok {
		unit, err := currency.ParseISO(code)
		if err != nil {
			return currency.Unit{}, message.ErrBadOption.Wrap(err).
				With(slog.String("option", "currency"))
		}

		return unit, nil
	}

	unit, conf := currency.FromTag(ctx.Tag)
	if conf == language.No {
		return currency.Unit{}, message.ErrBadOption.
			Wrap(errors.New("no currency option and none inferred from locale")).
			With(slog.String("locale", ctx.Locale()))
	}

	return unit, nil
}
