package message

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/text/language"
)

func TestPluralOperands(t *testing.T) {
	tests := []struct {
		digits        string
		i, v, w, f, t int
	}{
		{"1", 1, 0, 0, 0, 0},
		{"-1", 1, 0, 0, 0, 0},
		{"1.0", 1, 1, 0, 0, 0},
		{"1.50", 1, 2, 1, 50, 5},
		{"0.03", 0, 2, 2, 3, 3},
		{"12345678901", 1_345_678_901, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			i, v, w, f, tv := pluralOperands(tt.digits)
			if i != tt.i || v != tt.v || w != tt.w || f != tt.f || tv != tt.t {
				t.Errorf("expected %d %d %d %d %d, got %d %d %d %d %d",
					tt.i, tt.v, tt.w, tt.f, tt.t, i, v, w, f, tv)
			}
		})
	}
}

func TestPluralCategory(t *testing.T) {
	tests := []struct {
		locale  string
		digits  string
		ordinal bool
		want    string
	}{
		{"en", "1", false, "one"},
		{"en", "1.0", false, "other"},
		{"en", "2", false, "other"},
		{"en", "1", true, "one"},
		{"en", "2", true, "two"},
		{"en", "3", true, "few"},
		{"en", "11", true, "other"},
		{"ro", "0", false, "few"},
		{"ro", "20", false, "other"},
		{"pl", "5", false, "many"},
		{"ar", "0", false, "zero"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s/%v", tt.locale, tt.digits, tt.ordinal), func(t *testing.T) {
			tag := language.MustParse(tt.locale)
			if got := PluralCategory(tag, tt.digits, tt.ordinal); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNumberValue_Digits(t *testing.T) {
	opts := func(lo, hi int) numberOptions {
		o := defaultNumberOptions()
		o.minFrac, o.maxFrac = lo, hi

		return o
	}

	tests := []struct {
		name string
		num  any
		opts numberOptions
		want string
	}{
		{"integer", int64(-42), defaultNumberOptions(), "-42"},
		{"unsigned", uint64(18446744073709551615), defaultNumberOptions(), "18446744073709551615"},
		{"float default", 2.5, defaultNumberOptions(), "2.5"},
		{"float whole", 1.0, defaultNumberOptions(), "1"},
		{"rounded", 3.14159, defaultNumberOptions(), "3.142"},
		{"minimum fraction", 1.5, opts(2, -1), "1.50"},
		{"integer with minimum fraction", int64(7), opts(1, -1), "7.0"},
		{"maximum fraction", 2.26, opts(-1, 1), "2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNumber(language.English, tt.num, tt.opts)
			if got := n.digits(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSymbolsOf(t *testing.T) {
	tests := []struct {
		locale         string
		group, decimal string
	}{
		{"en", ",", "."},
		{"de", ".", ","},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			sym := symbolsOf(language.MustParse(tt.locale))
			if sym.group != tt.group || sym.decimal != tt.decimal {
				t.Errorf("expected %q %q, got %q %q", tt.group, tt.decimal, sym.group, sym.decimal)
			}
		})
	}
}

func TestDecomposeNumber(t *testing.T) {
	var got []string
	for p := range decomposeNumber("-1,234.5", symbols{group: ",", decimal: "."}, "$n") {
		if p.Kind != KindNumber || p.Source != "$n" {
			t.Errorf("unexpected part %+v", p)
		}

		got = append(got, p.Type+":"+p.Value)
	}

	want := "[minusSign:- integer:1 group:, integer:234 decimal:. fraction:5]"
	if fmt.Sprint(got) != want {
		t.Errorf("expected %s, got %v", want, got)
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		raw     any
		want    any
		wantErr bool
	}{
		{int64(3), int64(3), false},
		{"12", int64(12), false},
		{" 1.5 ", 1.5, false},
		{"1e3", 1000.0, false},
		{uint8(4), uint64(4), false},
		{"abc", nil, true},
		{"NaN", nil, true},
		{[]int{1}, nil, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.raw), func(t *testing.T) {
			got, err := toNumber(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestNumberOptions_Merge(t *testing.T) {
	ctx := Context{Tag: language.English}
	num := func(s string) *Value { return &Value{Kind: KindString, Raw: s} }

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{
			name: "grouping off",
			opts: Options{"useGrouping": num("false")},
			want: "1234.5",
		},
		{
			name: "minimum integer digits",
			opts: Options{"minimumIntegerDigits": num("3"), "useGrouping": num("never")},
			want: "001",
		},
		{
			name:    "digits out of range",
			opts:    Options{"maximumFractionDigits": num("21")},
			wantErr: ErrBadOption,
		},
		{
			name:    "digits not a number",
			opts:    Options{"minimumFractionDigits": num("two")},
			wantErr: ErrBadOption,
		},
		{
			name:    "unknown select",
			opts:    Options{"select": num("cardinal")},
			wantErr: ErrBadOption,
		},
		{
			name:    "unknown grouping",
			opts:    Options{"useGrouping": num("sometimes")},
			wantErr: ErrBadOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operand := &Value{Kind: KindNumber, Raw: 1234.5}
			if tt.name == "minimum integer digits" {
				operand.Raw = int64(1)
			}

			got, err := callNumber(ctx, tt.opts, operand)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if s := got.(*numberValue).String(); s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestCallInteger(t *testing.T) {
	ctx := Context{Tag: language.English}

	got, err := callInteger(ctx, nil, &Value{Kind: KindNumber, Raw: -2.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := got.(*numberValue)
	if n.Number() != int64(-2) || n.String() != "-2" {
		t.Errorf("expected -2, got %v %q", n.Number(), n.String())
	}

	if _, err := callInteger(ctx, nil, nil); !errors.Is(err, ErrBadOperand) {
		t.Errorf("expected bad operand, got %v", err)
	}
}

func TestCallString(t *testing.T) {
	ctx := Context{Tag: language.German}

	n := newNumber(language.German, 1234.5, defaultNumberOptions())

	got, err := callString(ctx, nil, &Value{Kind: KindNumber, Raw: n})
	if err != nil || got != "1234.5" {
		t.Errorf("expected unlocalized digits, got %v %v", got, err)
	}

	if _, err := callString(ctx, nil, nil); !errors.Is(err, ErrBadOperand) {
		t.Errorf("expected bad operand, got %v", err)
	}
}
