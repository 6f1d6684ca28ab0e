package message

import (
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Selection modes of the number function.
const (
	SelectPlural  = "plural"
	SelectOrdinal = "ordinal"
	SelectExact   = "exact"
)

const defaultMaxFractionDigits = 3

var errMissingOperand = errors.New("missing operand")

// numberOptions are the formatting options of a number value. Negative
// digit counts are unset.
type numberOptions struct {
	minFrac  int
	maxFrac  int
	minInt   int
	grouping bool
	sel      string
}

func defaultNumberOptions() numberOptions {
	return numberOptions{minFrac: -1, maxFrac: -1, minInt: -1, grouping: true, sel: SelectPlural}
}

// merge applies explicit function options over o.
func (o numberOptions) merge(opts Options) (numberOptions, error) {
	digits := []struct {
		name string
		dst  *int
	}{
		{"minimumFractionDigits", &o.minFrac},
		{"maximumFractionDigits", &o.maxFrac},
		{"minimumIntegerDigits", &o.minInt},
	}

	for _, d := range digits {
		n, ok, err := opts.Int(d.name)
		if err != nil {
			return o, err
		}

		if ok {
			if n < 0 || n > 20 {
				return o, ErrBadOption.With(
					slog.String("option", d.name),
					slog.Int("value", n),
				)
			}

			*d.dst = n
		}
	}

	if s, ok := opts.String("useGrouping"); ok {
		switch strings.ToLower(s) {
		case "true", "auto", "always", "min2":
			o.grouping = true
		case "false", "never":
			o.grouping = false
		default:
			return o, ErrBadOption.With(
				slog.String("option", "useGrouping"),
				slog.String("value", s),
			)
		}
	}

	if s, ok := opts.String("select"); ok {
		switch s {
		case SelectPlural, SelectOrdinal, SelectExact:
			o.sel = s
		default:
			return o, ErrBadOption.With(
				slog.String("option", "select"),
				slog.String("value", s),
			)
		}
	}

	return o, nil
}

func (o numberOptions) fraction() (lo, hi int) {
	lo, hi = max(o.minFrac, 0), o.maxFrac
	if hi < 0 {
		hi = max(defaultMaxFractionDigits, lo)
	}

	return lo, max(lo, hi)
}

// numberValue is the raw value produced by the number and integer
// functions. It renders, decomposes and selects according to its locale.
type numberValue struct {
	tag  language.Tag
	num  any // int64, uint64 or float64
	opts numberOptions
	text string
}

func newNumber(tag language.Tag, num any, opts numberOptions) *numberValue {
	n := &numberValue{tag: tag, num: num, opts: opts}
	n.text = n.format()

	return n
}

func (n *numberValue) format() string {
	lo, hi := n.opts.fraction()

	opts := []number.Option{
		number.MinFractionDigits(lo),
		number.MaxFractionDigits(hi),
	}

	if n.opts.minInt > 0 {
		opts = append(opts, number.MinIntegerDigits(n.opts.minInt))
	}

	if !n.opts.grouping {
		opts = append(opts, number.NoSeparator())
	}

	return xmessage.NewPrinter(n.tag).Sprint(number.Decimal(n.num, opts...))
}

// String returns the localized text.
func (n *numberValue) String() string { return n.text }

// Number returns the numeric value as an int64, uint64 or float64.
func (n *numberValue) Number() any { return n.num }

// digits returns the unlocalized decimal form after rounding, such as
// "-1234.50".
func (n *numberValue) digits() string {
	lo, hi := n.opts.fraction()

	var s string

	switch x := n.num.(type) {
	case int64:
		s = strconv.FormatInt(x, 10)
	case uint64:
		s = strconv.FormatUint(x, 10)
	case float64:
		s = strconv.FormatFloat(x, 'f', hi, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			frac := strings.TrimRight(s[i+1:], "0")
			s = s[:i+1] + frac
		}

		s = strings.TrimSuffix(s, ".")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) < lo {
		frac += strings.Repeat("0", lo-len(frac))
	}

	if frac == "" {
		return whole
	}

	return whole + "." + frac
}

func (n *numberValue) float() float64 {
	f, _ := strconv.ParseFloat(n.digits(), 64)

	return f
}

// Parts implements [Decomposer].
func (n *numberValue) Parts(source string) iter.Seq[Part] {
	return decomposeNumber(n.text, symbolsOf(n.tag), source)
}

// SelectKeys implements [KeySelector]. Exact numeric keys are preferred over
// the plural category.
func (n *numberValue) SelectKeys(keys []string) []string {
	var (
		out   []string
		value = n.float()
	)

	for _, k := range keys {
		lit := strings.TrimPrefix(k, "=")
		if !isNumberLiteral(lit) {
			continue
		}

		if f, err := strconv.ParseFloat(lit, 64); err == nil && f == value {
			out = append(out, k)
		}
	}

	if n.opts.sel == SelectExact {
		return out
	}

	rules := plural.Cardinal
	if n.opts.sel == SelectOrdinal {
		rules = plural.Ordinal
	}

	cat := pluralCategory(rules, n.tag, n.digits())
	for _, k := range keys {
		if k == cat {
			out = append(out, k)

			break
		}
	}

	return out
}

// PluralCategory returns the CLDR plural category name ("zero", "one",
// "two", "few", "many" or "other") of the decimal string digits.
func PluralCategory(tag language.Tag, digits string, ordinal bool) string {
	if ordinal {
		return pluralCategory(plural.Ordinal, tag, digits)
	}

	return pluralCategory(plural.Cardinal, tag, digits)
}

var formNames = map[plural.Form]string{
	plural.Other: "other",
	plural.Zero:  "zero",
	plural.One:   "one",
	plural.Two:   "two",
	plural.Few:   "few",
	plural.Many:  "many",
}

func pluralCategory(rules *plural.Rules, tag language.Tag, digits string) string {
	i, v, w, f, t := pluralOperands(digits)

	return formNames[rules.MatchPlural(tag, i, v, w, f, t)]
}

// pluralOperands computes the CLDR operands of a decimal string. Integer
// parts too large for the rules keep their low nine digits, offset so that
// they never read as 0 or 1.
func pluralOperands(digits string) (i, v, w, f, t int) {
	digits = strings.TrimLeft(digits, "-+")
	ip, fp, _ := strings.Cut(digits, ".")

	i = truncatedInt(ip)
	v = len(fp)
	f = truncatedInt(fp)

	tp := strings.TrimRight(fp, "0")
	w = len(tp)
	t = truncatedInt(tp)

	return i, v, w, f, t
}

func truncatedInt(s string) int {
	const width = 9

	if s == "" {
		return 0
	}

	if len(s) <= width {
		n, _ := strconv.Atoi(s)

		return n
	}

	n, _ := strconv.Atoi(s[len(s)-width:])

	return n + 1_000_000_000
}

// symbols are the group and decimal separators of a locale.
type symbols struct {
	group   string
	decimal string
}

var symbolCache sync.Map // BCP 47 tag -> symbols

// symbolsOf probes the separators x/text uses for tag.
func symbolsOf(tag language.Tag) symbols {
	key := tag.String()
	if s, ok := symbolCache.Load(key); ok {
		return s.(symbols)
	}

	var runs []string

	probe := xmessage.NewPrinter(tag).Sprint(number.Decimal(12345678.5))
	for run, digit := range runesByClass(probe) {
		if !digit {
			runs = append(runs, run)
		}
	}

	sym := symbols{decimal: "."}

	switch len(runs) {
	case 0:
	case 1:
		sym.decimal = runs[0]
	default:
		sym.group, sym.decimal = runs[0], runs[len(runs)-1]
	}

	symbolCache.Store(key, sym)

	return sym
}

// runesByClass splits s into maximal runs of digits and non-digits.
func runesByClass(s string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		start := 0

		for start < len(s) {
			r, size := utf8.DecodeRuneInString(s[start:])
			digit := unicode.IsDigit(r)

			end := start + size
			for end < len(s) {
				r, size = utf8.DecodeRuneInString(s[end:])
				if unicode.IsDigit(r) != digit {
					break
				}

				end += size
			}

			if !yield(s[start:end], digit) {
				return
			}

			start = end
		}
	}
}

// decomposeNumber splits formatted number text into typed fragments.
func decomposeNumber(text string, sym symbols, source string) iter.Seq[Part] {
	return func(yield func(Part) bool) {
		var (
			first    = true
			fraction bool
		)

		for run, digit := range runesByClass(text) {
			typ := PartLiteral

			switch {
			case digit && fraction:
				typ = "fraction"
			case digit:
				typ = "integer"
			case first && (run == "-" || run == "−"):
				typ = "minusSign"
			case first && run == "+":
				typ = "plusSign"
			case run == sym.decimal && !fraction:
				typ, fraction = "decimal", true
			case run == sym.group && !fraction:
				typ = "group"
			}

			first = false

			if !yield(Part{Type: typ, Kind: KindNumber, Value: run, Source: source}) {
				return
			}
		}
	}
}

// numberOperand extracts a number and its inherited options from v.
func numberOperand(v *Value) (any, numberOptions, error) {
	if v == nil {
		return nil, numberOptions{}, ErrBadOperand.Wrap(errMissingOperand)
	}

	if n, ok := v.Raw.(*numberValue); ok {
		return n.num, n.opts, nil
	}

	num, err := toNumber(v.Raw)
	if err != nil {
		return nil, numberOptions{}, ErrBadOperand.Wrap(err).
			With(slog.String("operand", v.Source))
	}

	return num, defaultNumberOptions(), nil
}

// toNumber converts raw to an int64, uint64 or float64.
func toNumber(raw any) (any, error) {
	if d, ok := raw.(dynamicValue); ok {
		raw = d.Value()
	}

	a := ArgOf(raw)

	var s string

	switch x := a.Raw().(type) {
	case int64, uint64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.New("not a finite number")
		}

		return x, nil
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		return nil, errors.New("not a number")
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New("not a number: " + strconv.Quote(s))
	}

	return f, nil
}

func callNumber(ctx Context, opts Options, operand *Value) (any, error) {
	num, base, err := numberOperand(operand)
	if err != nil {
		return nil, err
	}

	o, err := base.merge(opts)
	if err != nil {
		return nil, err
	}

	return newNumber(ctx.Tag, num, o), nil
}

func callInteger(ctx Context, opts Options, operand *Value) (any, error) {
	num, base, err := numberOperand(operand)
	if err != nil {
		return nil, err
	}

	o, err := base.merge(opts)
	if err != nil {
		return nil, err
	}

	o.minFrac, o.maxFrac = 0, 0

	if f, ok := num.(float64); ok {
		f = math.Trunc(f)
		if f >= math.MinInt64 && f < math.MaxInt64 {
			num = int64(f)
		} else {
			num = f
		}
	}

	return newNumber(ctx.Tag, num, o), nil
}

func callString(_ Context, _ Options, operand *Value) (any, error) {
	if operand == nil {
		return nil, ErrBadOperand.Wrap(errMissingOperand)
	}

	if n, ok := operand.Raw.(*numberValue); ok {
		return n.digits(), nil
	}

	return operand.String(), nil
}
