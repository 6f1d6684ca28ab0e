package message

import (
	"strings"
)

// Message is a compiled message: either a [*PatternMessage] or a
// [*SelectMessage]. Messages are produced by syntax compilers (or decoded with
// [Decode]) and are never modified by the runtime.
type Message interface {
	declarations() []Declaration
}

// PatternMessage is a message with a single pattern.
type PatternMessage struct {
	Declarations []Declaration
	Pattern      Pattern
}

// SelectMessage is a conditional message. Exactly one of its variants is
// chosen by matching the resolved selectors against the variant keys.
type SelectMessage struct {
	Declarations []Declaration
	Selectors    []Expression
	Variants     []Variant
}

func (m *PatternMessage) declarations() []Declaration { return m.Declarations }
func (m *SelectMessage) declarations() []Declaration  { return m.Declarations }

// Declaration binds Name to the lazily evaluated Value expression.
// A declaration can refer to call arguments and to earlier declarations.
type Declaration struct {
	Name  string
	Value Expression
}

// Variant is one (keys, pattern) pair of a [SelectMessage].
type Variant struct {
	Keys  []Key
	Value Pattern
}

// Key is a variant key. A catch-all key matches any selector value.
type Key struct {
	Value    string
	CatchAll bool
}

// CatchAll is the wildcard key.
var CatchAll = Key{CatchAll: true}

// LiteralKey returns a key matching s.
func LiteralKey(s string) Key { return Key{Value: s} }

// String returns "*" for the catch-all key and the key text otherwise.
func (k Key) String() string {
	if k.CatchAll {
		return "*"
	}

	return k.Value
}

// Pattern is an ordered sequence of text and expressions.
type Pattern []Element

// Element is a pattern element: [Text] or an [Expression].
type Element interface {
	element()
}

// Text is literal pattern text.
type Text string

// Expression is a [*Literal], [*VariableRef], [*FunctionRef] or [*Markup].
type Expression interface {
	Element
	// Source returns the expression as it would be written in a message.
	Source() string
}

// Literal is a literal operand. Unquoted literals matching the number
// grammar are numeric.
type Literal struct {
	Value  string
	Quoted bool
}

// VariableRef refers to a call argument or a declaration by name.
// Dots separate path segments into nested values.
type VariableRef struct {
	Name string
}

// FunctionRef calls a registered function.
type FunctionRef struct {
	Name    string
	Operand Expression // optional
	Options []Option
}

// Option is a named function or markup option.
type Option struct {
	Name  string
	Value Expression
}

// MarkupKind distinguishes opening, closing and standalone markup.
type MarkupKind string

const (
	MarkupOpen       MarkupKind = "open"
	MarkupClose      MarkupKind = "close"
	MarkupStandalone MarkupKind = "standalone"
)

// Markup is passed through to the formatted parts for the embedding
// application to interpret. It contributes no text.
type Markup struct {
	Kind    MarkupKind
	Name    string
	Options []Option
}

func (Text) element()         {}
func (*Literal) element()     {}
func (*VariableRef) element() {}
func (*FunctionRef) element() {}
func (*Markup) element()      {}

// Var is shorthand for &VariableRef{Name: name}.
func Var(name string) *VariableRef { return &VariableRef{Name: name} }

// Lit is shorthand for a quoted literal.
func Lit(s string) *Literal { return &Literal{Value: s, Quoted: true} }

// Num is shorthand for an unquoted (possibly numeric) literal.
func Num(s string) *Literal { return &Literal{Value: s} }

// Call is shorthand for a [*FunctionRef]. The operand may be nil.
func Call(name string, operand Expression, opts ...Option) *FunctionRef {
	return &FunctionRef{Name: name, Operand: operand, Options: opts}
}

// Opt is shorthand for an [Option].
func Opt(name string, value Expression) Option {
	return Option{Name: name, Value: value}
}

// Source implements [Expression].
func (l *Literal) Source() string {
	if l.Quoted || !isNumberLiteral(l.Value) {
		return "|" + strings.ReplaceAll(l.Value, "|", `\|`) + "|"
	}

	return l.Value
}

// Numeric reports whether l is an unquoted number literal.
func (l *Literal) Numeric() bool { return !l.Quoted && isNumberLiteral(l.Value) }

// Source implements [Expression].
func (v *VariableRef) Source() string { return "$" + v.Name }

// Source implements [Expression].
func (f *FunctionRef) Source() string {
	var sb strings.Builder

	if f.Operand != nil {
		sb.WriteString(f.Operand.Source())
		sb.WriteByte(' ')
	}

	sb.WriteByte(':')
	sb.WriteString(f.Name)
	writeOptions(&sb, f.Options)

	return sb.String()
}

// Source implements [Expression].
func (m *Markup) Source() string {
	var sb strings.Builder

	switch m.Kind {
	case MarkupClose:
		sb.WriteByte('/')
	default:
		sb.WriteByte('#')
	}

	sb.WriteString(m.Name)
	writeOptions(&sb, m.Options)

	if m.Kind == MarkupStandalone {
		sb.WriteString(" /")
	}

	return sb.String()
}

func writeOptions(sb *strings.Builder, opts []Option) {
	for _, opt := range opts {
		sb.WriteByte(' ')
		sb.WriteString(opt.Name)
		sb.WriteByte('=')

		if opt.Value != nil {
			sb.WriteString(opt.Value.Source())
		}
	}
}

// isNumberLiteral reports whether s matches
// "-"? ("0" | [1-9][0-9]*) ("." [0-9]+)? ([eE] [-+]? [0-9]+)?.
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}

	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}

	if i < len(s) && s[i] == '.' {
		i++

		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}

		if i == start {
			return false
		}
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}

		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}

		if i == start {
			return false
		}
	}

	return i == len(s)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
