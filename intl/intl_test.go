package intl

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/SkeLLLa/messageformat/message"
)

// render formats msg and returns the text with the recorded errors.
func render(
	t *testing.T, msg message.Message, locale string, args message.Args, opts ...Option,
) (string, error) {
	t.Helper()

	mf, err := message.New(msg, []string{locale},
		message.WithFunctions(Functions(opts...)),
		message.WithContext(t.Context()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var errs message.Collector

	s := mf.Format(args, message.WithErrorSink(errs.Add))

	return s, errs.Err()
}

func pattern(els ...message.Element) *message.PatternMessage {
	return &message.PatternMessage{Pattern: els}
}

func variant(key string, els ...message.Element) message.Variant {
	k := message.LiteralKey(key)
	if key == "*" {
		k = message.CatchAll
	}

	return message.Variant{Keys: []message.Key{k}, Value: els}
}

func TestFunctions_Names(t *testing.T) {
	want := []string{"currency", "datetime", "list", "ordinal", "percent", "plural", "select"}

	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	reg := Registry()
	if reg.Len() != len(want)+3 {
		t.Errorf("expected %d functions, got %d", len(want)+3, reg.Len())
	}

	if _, ok := reg.Lookup("number"); !ok {
		t.Error("expected the default number function")
	}
}

func TestOrdinal(t *testing.T) {
	n := message.Var("n")
	msg := &message.SelectMessage{
		Selectors: []message.Expression{message.Call("ordinal", n)},
		Variants: []message.Variant{
			variant("one", n, message.Text("st")),
			variant("two", n, message.Text("nd")),
			variant("few", n, message.Text("rd")),
			variant("*", n, message.Text("th")),
		},
	}

	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 21: "21st", 112: "112th"}

	for in, want := range tests {
		got, err := render(t, msg, "en", message.Args{"n": in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestPlural(t *testing.T) {
	n := message.Var("n")
	msg := &message.SelectMessage{
		Selectors: []message.Expression{message.Call("plural", n)},
		Variants: []message.Variant{
			variant("one", message.Text("one")),
			variant("few", message.Text("few")),
			variant("*", message.Text("other")),
		},
	}

	tests := []struct {
		locale string
		n      any
		want   string
	}{
		{"en", 1, "one"},
		{"en", 5, "other"},
		{"ro", 1, "one"},
		{"ro", 5, "few"},
		{"ro", 25, "other"},
	}

	for _, tt := range tests {
		got, err := render(t, msg, tt.locale, message.Args{"n": tt.n})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != tt.want {
			t.Errorf("%s %v: expected %q, got %q", tt.locale, tt.n, tt.want, got)
		}
	}
}

func TestSelect(t *testing.T) {
	msg := &message.SelectMessage{
		Selectors: []message.Expression{message.Call("select", message.Var("gender"))},
		Variants: []message.Variant{
			variant("female", message.Text("her")),
			variant("male", message.Text("his")),
			variant("*", message.Text("their")),
		},
	}

	for gender, want := range map[string]string{"female": "her", "male": "his", "x": "their"} {
		got, err := render(t, msg, "en", message.Args{"gender": gender})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		opts []message.Option
		want string
	}{
		{"default", nil, "26%"},
		{"fraction digits", []message.Option{
			message.Opt("minimumFractionDigits", message.Num("1")),
			message.Opt("maximumFractionDigits", message.Num("1")),
		}, "25.6%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := pattern(message.Call("percent", message.Var("r"), tt.opts...))

			got, err := render(t, msg, "en", message.Args{"r": 0.256})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name    string
		opts    []message.Option
		locale  string
		want    []string
		wantErr error
	}{
		{
			name:   "symbol",
			opts:   []message.Option{message.Opt("currency", message.Lit("USD"))},
			locale: "en",
			want:   []string{"$", "1,234.50"},
		},
		{
			name: "code",
			opts: []message.Option{
				message.Opt("currency", message.Lit("EUR")),
				message.Opt("currencyDisplay", message.Lit("code")),
			},
			locale: "en",
			want:   []string{"EUR", "1,234.50"},
		},
		{
			name:   "from locale",
			locale: "en-US",
			want:   []string{"$"},
		},
		{
			name:    "unknown code",
			opts:    []message.Option{message.Opt("currency", message.Lit("XQQ1"))},
			locale:  "en",
			wantErr: message.ErrBadOption,
		},
		{
			name: "unknown display",
			opts: []message.Option{
				message.Opt("currency", message.Lit("USD")),
				message.Opt("currencyDisplay", message.Lit("words")),
			},
			locale:  "en",
			wantErr: message.ErrBadOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := pattern(message.Call("currency", message.Var("x"), tt.opts...))

			got, err := render(t, msg, tt.locale, message.Args{"x": 1234.5})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				if got != "{$x}" {
					t.Errorf("expected fallback, got %q", got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in %q", w, got)
				}
			}
		})
	}
}

func TestDateTime(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name    string
		arg     any
		opts    []message.Option
		fopts   []Option
		want    string
		wantErr error
	}{
		{name: "default", arg: at, want: "Mar 5, 2024 14:07"},
		{
			name: "named layout",
			arg:  at,
			opts: []message.Option{message.Opt("layout", message.Lit("date"))},
			want: "2024-03-05",
		},
		{
			name: "reference layout",
			arg:  at,
			opts: []message.Option{message.Opt("layout", message.Lit("02/01 15h"))},
			want: "05/03 14h",
		},
		{
			name: "long date only",
			arg:  at,
			opts: []message.Option{message.Opt("dateStyle", message.Lit("long"))},
			want: "March 5, 2024",
		},
		{
			name: "short time only",
			arg:  at,
			opts: []message.Option{message.Opt("timeStyle", message.Lit("short"))},
			want: "14:07",
		},
		{
			name: "string operand",
			arg:  "2024-03-05",
			opts: []message.Option{message.Opt("dateStyle", message.Lit("full"))},
			want: "Tuesday, March 5, 2024",
		},
		{
			name: "unix seconds",
			arg:  at.Unix(),
			opts: []message.Option{message.Opt("layout", message.Lit("rfc3339"))},
			want: "2024-03-05T14:07:09Z",
		},
		{
			name:  "location",
			arg:   at,
			opts:  []message.Option{message.Opt("timeStyle", message.Lit("medium"))},
			fopts: []Option{WithLocation(time.FixedZone("X", 3600))},
			want:  "15:07:09",
		},
		{
			name:    "bad style",
			arg:     at,
			opts:    []message.Option{message.Opt("dateStyle", message.Lit("tiny"))},
			wantErr: message.ErrBadOption,
		},
		{
			name:    "bad operand",
			arg:     "yesterday",
			wantErr: message.ErrBadOperand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := pattern(message.Call("datetime", message.Var("t"), tt.opts...))

			got, err := render(t, msg, "en", message.Args{"t": tt.arg}, tt.fopts...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
