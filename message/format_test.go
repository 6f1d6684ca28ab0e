package message

import (
	"errors"
	"iter"
	"reflect"
	"strings"
	"testing"
)

func mustNew(t *testing.T, msg Message, locale string, opts ...FormatOption) *MessageFormat {
	t.Helper()

	mf, err := New(msg, []string{locale}, opts...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	return mf
}

func joinParts(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Value)
	}

	return sb.String()
}

func TestFormat_Pattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		args    Args
		want    string
	}{
		{
			name:    "text only",
			pattern: Pattern{Text("Hello, World!")},
			want:    "Hello, World!",
		},
		{
			name:    "string argument",
			pattern: Pattern{Text("Hello, "), Var("name"), Text("!")},
			args:    Args{"name": "Kat"},
			want:    "Hello, Kat!",
		},
		{
			name:    "integer argument",
			pattern: Pattern{Text("You have "), Var("count"), Text(" items.")},
			args:    Args{"count": 3},
			want:    "You have 3 items.",
		},
		{
			name:    "grouped number",
			pattern: Pattern{Var("n")},
			args:    Args{"n": 1234.5},
			want:    "1,234.5",
		},
		{
			name:    "named numeric type",
			pattern: Pattern{Var("n")},
			args:    Args{"n": count(7)},
			want:    "7",
		},
		{
			name:    "pointer argument",
			pattern: Pattern{Var("s")},
			args:    Args{"s": ptr("deref")},
			want:    "deref",
		},
		{
			name:    "quoted literal",
			pattern: Pattern{Text("a "), Lit("b"), Text(" c")},
			want:    "a b c",
		},
		{
			name:    "numeric literal",
			pattern: Pattern{Num("1000")},
			want:    "1,000",
		},
		{
			name:    "missing argument",
			pattern: Pattern{Text("Hi "), Var("who")},
			want:    "Hi {$who}",
		},
		{
			name:    "markup contributes no text",
			pattern: Pattern{&Markup{Kind: MarkupOpen, Name: "b"}, Text("bold"), &Markup{Kind: MarkupClose, Name: "b"}},
			want:    "bold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf := mustNew(t, &PatternMessage{Pattern: tt.pattern}, "en")

			if got := mf.Format(tt.args); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if got := joinParts(mf.FormatToParts(tt.args)); got != tt.want {
				t.Errorf("expected parts to join to %q, got %q", tt.want, got)
			}
		})
	}
}

type count int

func ptr[T any](v T) *T { return &v }

func TestFormatToParts_Number(t *testing.T) {
	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Var("val")}}, "en")

	parts := mf.FormatToParts(Args{"val": 42})

	want := []Part{{Type: "integer", Kind: KindNumber, Value: "42", Source: "$val"}}
	if !reflect.DeepEqual(parts, want) {
		t.Errorf("expected %+v, got %+v", want, parts)
	}
}

func TestFormatToParts_NumberFragments(t *testing.T) {
	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Var("val")}}, "en")

	parts := mf.FormatToParts(Args{"val": -1234.5})

	want := []struct{ typ, value string }{
		{"minusSign", "-"},
		{"integer", "1"},
		{"group", ","},
		{"integer", "234"},
		{"decimal", "."},
		{"fraction", "5"},
	}

	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %d: %+v", len(want), len(parts), parts)
	}

	for i, w := range want {
		if parts[i].Type != w.typ || parts[i].Value != w.value {
			t.Errorf("part %d: expected %s %q, got %s %q",
				i, w.typ, w.value, parts[i].Type, parts[i].Value)
		}

		if parts[i].Source != "$val" {
			t.Errorf("part %d: expected source $val, got %q", i, parts[i].Source)
		}
	}
}

func TestFormatToParts_MissingVariable(t *testing.T) {
	var errs Collector

	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Var("val")}}, "en",
		WithErrorSink(errs.Sink()))

	parts := mf.FormatToParts(nil)

	want := []Part{{Type: PartFallback, Kind: KindFallback, Value: "{$val}", Source: "$val"}}
	if !reflect.DeepEqual(parts, want) {
		t.Errorf("expected %+v, got %+v", want, parts)
	}

	if len(errs.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs.Errors), errs.Errors)
	}

	if !errors.Is(errs.Errors[0], ErrUnresolvedVariable) {
		t.Errorf("expected unresolved variable, got %v", errs.Errors[0])
	}

	var e *Error
	if !errors.As(errs.Errors[0], &e) || e.Source() != "$val" {
		t.Errorf("expected error source $val, got %v", errs.Errors[0])
	}
}

func TestFormatToParts_Markup(t *testing.T) {
	msg := &PatternMessage{Pattern: Pattern{
		&Markup{Kind: MarkupOpen, Name: "link", Options: []Option{Opt("href", Var("url"))}},
		Text("docs"),
		&Markup{Kind: MarkupClose, Name: "link"},
	}}

	mf := mustNew(t, msg, "en")
	parts := mf.FormatToParts(Args{"url": "https://example.com"})

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	open := parts[0]
	if open.Type != PartMarkup || open.Markup != MarkupOpen || open.Name != "link" {
		t.Errorf("expected open link markup, got %+v", open)
	}

	if open.Options["href"] != "https://example.com" {
		t.Errorf("expected href option, got %v", open.Options)
	}

	if parts[2].Markup != MarkupClose || parts[2].Source != "/link" {
		t.Errorf("expected close link markup, got %+v", parts[2])
	}
}

func TestFormatToParts_Idempotent(t *testing.T) {
	msg := &PatternMessage{
		Declarations: []Declaration{{Name: "n", Value: Call("number", Var("count"))}},
		Pattern:      Pattern{Var("n"), Text(" of "), Var("total"), Var("missing")},
	}

	mf := mustNew(t, msg, "en")
	args := Args{"count": 12.25, "total": 100}

	first := mf.FormatToParts(args)
	second := mf.FormatToParts(args)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical parts, got %+v and %+v", first, second)
	}

	if len(first) > 0 {
		first[0].Value = "mutated"

		if third := mf.FormatToParts(args); third[0].Value == "mutated" {
			t.Error("expected parts not to be shared between calls")
		}
	}
}

// answer is a host value formatted by itself.
type answer struct{}

func (answer) FormatValue() any { return 42 }

type decomposedAnswer struct{ answer }

func (decomposedAnswer) Parts(source string) iter.Seq[Part] {
	return func(yield func(Part) bool) {
		for _, p := range []Part{
			{Type: "integer", Value: "42"},
			{Type: "decimal", Value: "."},
			{Type: "fraction", Value: "0"},
		} {
			p.Source = source
			if !yield(p) {
				return
			}
		}
	}
}

func TestFormatToParts_Formattable(t *testing.T) {
	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Var("val")}}, "en")

	t.Run("value", func(t *testing.T) {
		parts := mf.FormatToParts(Args{"val": answer{}})

		want := []Part{{Type: PartDynamic, Kind: KindDynamic, Value: "42", Source: "$val"}}
		if !reflect.DeepEqual(parts, want) {
			t.Errorf("expected %+v, got %+v", want, parts)
		}
	})

	t.Run("decomposed", func(t *testing.T) {
		parts := mf.FormatToParts(Args{"val": decomposedAnswer{}})

		want := []Part{
			{Type: "integer", Kind: KindDynamic, Value: "42", Source: "$val"},
			{Type: "decimal", Kind: KindDynamic, Value: ".", Source: "$val"},
			{Type: "fraction", Kind: KindDynamic, Value: "0", Source: "$val"},
		}
		if !reflect.DeepEqual(parts, want) {
			t.Errorf("expected %+v, got %+v", want, parts)
		}

		if got := mf.Format(Args{"val": decomposedAnswer{}}); got != "42.0" {
			t.Errorf("expected the text of the parts, got %q", got)
		}
	})

	t.Run("number operand", func(t *testing.T) {
		mf := mustNew(t, &PatternMessage{Pattern: Pattern{Call("number", Var("val"))}}, "en")

		for _, val := range []any{answer{}, decomposedAnswer{}} {
			var errs Collector

			if got := mf.Format(Args{"val": val}, WithErrorSink(errs.Add)); got != "42" {
				t.Errorf("%T: expected 42, got %q", val, got)
			}

			if err := errs.Err(); err != nil {
				t.Errorf("%T: expected no errors, got %v", val, err)
			}
		}
	})
}

// unstable is a host value whose callbacks panic.
type unstable struct{ where string }

func (u unstable) FormatValue() any {
	if u.where == "value" {
		panic("value")
	}

	return u
}

func (u unstable) String() string {
	if u.where == "string" {
		panic("string")
	}

	return "ok"
}

func (u unstable) SelectKeys([]string) []string {
	if u.where == "select" {
		panic("select")
	}

	return nil
}

func TestFormat_PanickingHostValue(t *testing.T) {
	tests := []struct {
		where string
		msg   Message
		want  string
	}{
		{
			where: "value",
			msg:   &PatternMessage{Pattern: Pattern{Text("a "), Var("v"), Text(" b")}},
			want:  "a {$v} b",
		},
		{
			where: "string",
			msg:   &PatternMessage{Pattern: Pattern{Text("a "), Var("v"), Text(" b")}},
			want:  "a {$v} b",
		},
		{
			where: "string",
			msg: &PatternMessage{Pattern: Pattern{
				&Markup{Kind: MarkupStandalone, Name: "img", Options: []Option{Opt("alt", Var("v"))}},
				Text("x"),
			}},
			want: "x",
		},
		{
			where: "select",
			msg: &SelectMessage{
				Selectors: []Expression{Var("v")},
				Variants: []Variant{
					{Keys: []Key{LiteralKey("ok")}, Value: Pattern{Text("matched")}},
					{Keys: []Key{CatchAll}, Value: Pattern{Text("other")}},
				},
			},
			want: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			var errs Collector

			mf := mustNew(t, tt.msg, "en")

			got := mf.Format(Args{"v": unstable{where: tt.where}}, WithErrorSink(errs.Add))
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if len(errs.Errors) != 1 || !errors.Is(errs.Errors[0], ErrResolution) {
				t.Errorf("expected one resolution error, got %v", errs.Errors)
			}
		})
	}
}

func TestFormat_Functions(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		args Args
		want string
		kind ErrorKind
	}{
		{
			name: "fraction digits",
			expr: Call("number", Var("n"), Opt("minimumFractionDigits", Num("2"))),
			args: Args{"n": 3},
			want: "3.00",
		},
		{
			name: "maximum fraction digits",
			expr: Call("number", Var("n"), Opt("maximumFractionDigits", Num("1"))),
			args: Args{"n": 2.26},
			want: "2.3",
		},
		{
			name: "grouping off",
			expr: Call("number", Var("n"), Opt("useGrouping", Lit("false"))),
			args: Args{"n": 1234567},
			want: "1234567",
		},
		{
			name: "integer truncates",
			expr: Call("integer", Var("n")),
			args: Args{"n": 4.9},
			want: "4",
		},
		{
			name: "number from string",
			expr: Call("number", Var("n")),
			args: Args{"n": "12"},
			want: "12",
		},
		{
			name: "string of number",
			expr: Call("string", Var("n")),
			args: Args{"n": 1234},
			want: "1234",
		},
		{
			name: "bad operand",
			expr: Call("number", Var("n")),
			args: Args{"n": "twelve"},
			want: "{$n}",
			kind: KindBadOperand,
		},
		{
			name: "bad option",
			expr: Call("number", Var("n"), Opt("minimumFractionDigits", Lit("many"))),
			args: Args{"n": 1},
			want: "{$n}",
			kind: KindBadOption,
		},
		{
			name: "unknown function",
			expr: Call("nubmer", Var("n")),
			args: Args{"n": 1},
			want: "{$n}",
			kind: KindUnknownFunction,
		},
		{
			name: "unknown function without operand",
			expr: Call("now", nil),
			want: "{:now}",
			kind: KindUnknownFunction,
		},
		{
			name: "missing operand",
			expr: Call("number", Var("absent")),
			want: "{$absent}",
			kind: KindUnresolvedVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errs Collector

			mf := mustNew(t, &PatternMessage{Pattern: Pattern{tt.expr}}, "en")

			if got := mf.Format(tt.args, WithErrorSink(errs.Add)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if got := joinParts(mf.FormatToParts(tt.args)); got != tt.want {
				t.Errorf("expected parts to join to %q, got %q", tt.want, got)
			}

			if tt.kind == "" {
				if err := errs.Err(); err != nil {
					t.Errorf("expected no errors, got %v", err)
				}

				return
			}

			if len(errs.Errors) != 1 {
				t.Fatalf("expected 1 error, got %v", errs.Errors)
			}

			var e *Error
			if !errors.As(errs.Errors[0], &e) || e.Kind() != tt.kind {
				t.Errorf("expected %s error, got %v", tt.kind, errs.Errors[0])
			}
		})
	}
}

func TestFormat_CustomFunctions(t *testing.T) {
	failing := Function{
		Kind: KindString,
		Call: func(Context, Options, *Value) (any, error) {
			return nil, errors.New("backend unavailable")
		},
	}

	panicking := Function{
		Kind: KindString,
		Call: func(Context, Options, *Value) (any, error) {
			panic("boom")
		},
	}

	shout := Function{
		Kind: "shout",
		Call: func(ctx Context, _ Options, v *Value) (any, error) {
			if ctx.Locale() != "en" {
				return nil, ErrBadOperand
			}

			return strings.ToUpper(v.String()) + "!", nil
		},
	}

	// Shadows the builtin, so string arguments are quoted too.
	quoted := Function{
		Kind: KindString,
		Call: func(_ Context, _ Options, v *Value) (any, error) {
			return "'" + v.String() + "'", nil
		},
	}

	mf := mustNew(t, &PatternMessage{Pattern: Pattern{
		Call("shout", Var("a")), Text(" "),
		Call("fail", Var("a")), Text(" "),
		Call("panic", Lit("x")), Text(" "),
		Var("a"),
	}}, "en", WithFunctions(map[string]Function{
		"shout":  shout,
		"fail":   failing,
		"panic":  panicking,
		"string": quoted,
	}))

	var errs Collector

	got := mf.Format(Args{"a": "hey"}, WithErrorSink(errs.Add))
	if want := "'HEY'! {$a} {|x|} 'hey'"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if len(errs.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs.Errors)
	}

	for _, err := range errs.Errors {
		if !errors.Is(err, ErrResolution) {
			t.Errorf("expected resolution error, got %v", err)
		}
	}

	parts := mf.FormatToParts(Args{"a": "hey"})
	if parts[0].Kind != "shout" || parts[0].Source != "$a" {
		t.Errorf("expected shout value sourced from $a, got %+v", parts[0])
	}

	if joined := joinParts(parts); joined != got {
		t.Errorf("expected parts to join to %q, got %q", got, joined)
	}
}

func TestFormatToParts_QuotedLiteral(t *testing.T) {
	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Text("a "), Lit("b")}}, "en")

	want := []Part{
		{Type: PartLiteral, Value: "a "},
		{Type: PartValue, Kind: KindString, Value: "b", Source: "|b|"},
	}
	if parts := mf.FormatToParts(nil); !reflect.DeepEqual(parts, want) {
		t.Errorf("expected %+v, got %+v", want, parts)
	}
}

func TestFormat_UnknownFunctionSuggestion(t *testing.T) {
	var errs Collector

	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Call("numbr", Num("1"))}}, "en")
	mf.Format(nil, WithErrorSink(errs.Add))

	if len(errs.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", errs.Errors)
	}

	if msg := errs.Errors[0].Error(); !strings.Contains(msg, "did you mean number?") {
		t.Errorf("expected suggestion in %q", msg)
	}
}

func TestFormat_PanickingSink(t *testing.T) {
	mf := mustNew(t, &PatternMessage{Pattern: Pattern{Var("a"), Text("|"), Var("b")}}, "en",
		WithErrorSink(func(error) { panic("sink") }))

	if got := mf.Format(nil); got != "{$a}|{$b}" {
		t.Errorf("expected fallbacks, got %q", got)
	}
}

func TestFormat_OneShot(t *testing.T) {
	got, err := Format(&PatternMessage{Pattern: Pattern{Var("x")}}, []string{"de"}, Args{"x": 1234.5})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	if got != "1.234,5" {
		t.Errorf("expected German grouping, got %q", got)
	}

	if _, err := Format(&SelectMessage{}, nil, nil); !errors.Is(err, ErrNoSelectors) {
		t.Errorf("expected no-selectors error, got %v", err)
	}

	if _, err := FormatToParts(nil, nil, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected malformed error, got %v", err)
	}
}

func BenchmarkFormat(b *testing.B) {
	msg := &SelectMessage{
		Declarations: []Declaration{{Name: "n", Value: Call("number", Var("count"))}},
		Selectors:    []Expression{Var("n")},
		Variants: []Variant{
			{Keys: []Key{LiteralKey("0")}, Value: Pattern{Text("no items")}},
			{Keys: []Key{LiteralKey("one")}, Value: Pattern{Var("n"), Text(" item")}},
			{Keys: []Key{CatchAll}, Value: Pattern{Var("n"), Text(" items")}},
		},
	}

	mf, err := New(msg, []string{"en"})
	if err != nil {
		b.Fatalf("new: %v", err)
	}

	args := Args{"count": 3}

	for b.Loop() {
		_ = mf.Format(args)
	}
}
