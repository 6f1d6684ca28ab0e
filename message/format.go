package message

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/SkeLLLa/messageformat/log"
)

// DefaultMaxDepth is the default maximum expression nesting depth.
// Users may modify this before calling [New] to change the default.
var DefaultMaxDepth = 100

// config holds formatting options. Options given to [New] are the defaults
// for every call; options given to a call override them for that call only.
type config struct {
	ctx      context.Context
	registry Registry
	sink     Sink
	logger   log.Logger
	maxDepth int
}

// FormatOption configures a [MessageFormat] or a single formatting call.
type FormatOption func(*config)

// WithRegistry replaces the function registry.
func WithRegistry(r Registry) FormatOption {
	return func(c *config) {
		c.registry = r
	}
}

// WithFunctions adds functions to the registry, shadowing existing entries
// of the same name.
func WithFunctions(funcs map[string]Function) FormatOption {
	return func(c *config) {
		c.registry = c.registry.With(funcs)
	}
}

// WithErrorSink sets the sink receiving errors recorded while formatting.
// Without a sink, or with a nil one, errors are discarded; pass the
// [Collector.Add] method of a [Collector] to keep them for inspection.
func WithErrorSink(sink Sink) FormatOption {
	return func(c *config) {
		if sink == nil {
			sink = discard
		}

		c.sink = sink
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) FormatOption {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxDepth sets the maximum expression nesting depth. Expressions nested
// deeper resolve to a fallback and record [ErrMaxDepthExceeded].
func WithMaxDepth(depth int) FormatOption {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithContext sets the context passed to functions and log handlers.
func WithContext(ctx context.Context) FormatOption {
	return func(c *config) {
		c.ctx = ctx
	}
}

func defaultConfig() config {
	return config{
		ctx:      context.Background(),
		registry: DefaultRegistry(),
		sink:     discard,
		maxDepth: DefaultMaxDepth,
	}
}

func applyOptions(c *config, opts ...FormatOption) {
	for _, opt := range opts {
		opt(c)
	}
}

// MessageFormat is a validated message bound to a locale preference list.
// It is immutable and safe for concurrent use.
type MessageFormat struct {
	msg     Message
	locales []string
	tag     language.Tag
	index   map[string]int
	cfg     config
}

// New validates msg and binds it to locales, most preferred first.
func New(msg Message, locales []string, opts ...FormatOption) (*MessageFormat, error) {
	if err := Validate(msg); err != nil {
		return nil, err
	}

	mf := &MessageFormat{
		msg:     msg,
		locales: append([]string(nil), locales...),
		tag:     matchLocale(locales),
		cfg:     defaultConfig(),
	}

	applyOptions(&mf.cfg, opts...)

	decls := msg.declarations()

	mf.index = make(map[string]int, len(decls))
	for i, d := range decls {
		mf.index[d.Name] = i
	}

	return mf, nil
}

// matchLocale returns the first locale that parses as a BCP 47 tag, or
// [language.Und].
func matchLocale(locales []string) language.Tag {
	for _, l := range locales {
		tag, err := language.Parse(strings.ReplaceAll(l, "_", "-"))
		if err == nil {
			return tag
		}
	}

	return language.Und
}

// Locales returns the locale preference list.
func (mf *MessageFormat) Locales() []string {
	return append([]string(nil), mf.locales...)
}

// Locale returns the locale used for formatting.
func (mf *MessageFormat) Locale() language.Tag { return mf.tag }

// Format formats the message with args. It never fails: expressions that
// cannot be resolved are rendered as "{source}" and reported to the error
// sink. The result is the concatenation of the values of
// [MessageFormat.FormatToParts].
func (mf *MessageFormat) Format(args Args, opts ...FormatOption) string {
	var sb strings.Builder

	for _, p := range mf.resolve(args, opts...) {
		sb.WriteString(p.Value)
	}

	return sb.String()
}

// FormatToParts formats the message with args into typed parts.
func (mf *MessageFormat) FormatToParts(args Args, opts ...FormatOption) []Part {
	return mf.resolve(args, opts...)
}

// Format validates msg and formats it with args in one step.
func Format(msg Message, locales []string, args Args, opts ...FormatOption) (string, error) {
	mf, err := New(msg, locales, opts...)
	if err != nil {
		return "", err
	}

	return mf.Format(args), nil
}

// FormatToParts validates msg and formats it into parts in one step.
func FormatToParts(msg Message, locales []string, args Args, opts ...FormatOption) ([]Part, error) {
	mf, err := New(msg, locales, opts...)
	if err != nil {
		return nil, err
	}

	return mf.FormatToParts(args), nil
}

// resolve evaluates the message once for a call and expands it into parts.
func (mf *MessageFormat) resolve(args Args, opts ...FormatOption) []Part {
	cfg := mf.cfg
	applyOptions(&cfg, opts...)

	c := &call{
		ctx:      cfg.ctx,
		reg:      cfg.registry,
		sink:     cfg.sink,
		log:      cfg.logger,
		maxDepth: cfg.maxDepth,
		locales:  mf.locales,
		tag:      mf.tag,
		scope:    newScope(args, mf.msg.declarations(), mf.index),
	}

	if c.ctx == nil {
		c.ctx = context.Background()
	}

	var pattern Pattern

	switch m := mf.msg.(type) {
	case *PatternMessage:
		pattern = m.Pattern
	case *SelectMessage:
		pattern = c.selectPattern(m)
	}

	out := make([]Part, 0, len(pattern))

	for _, el := range pattern {
		switch e := el.(type) {
		case Text:
			if e != "" {
				out = append(out, Part{Type: PartLiteral, Value: string(e)})
			}
		case *Markup:
			out = append(out, Part{
				Type:    PartMarkup,
				Source:  e.Source(),
				Name:    e.Name,
				Markup:  e.Kind,
				Options: c.markupOptions(e),
			})
		case Expression:
			out = append(out, c.render(c.eval(e, len(c.scope.slots)))...)
		}
	}

	c.log.TraceContext(c.ctx, "resolved message",
		slog.Int("parts", len(out)),
		slog.String("locale", c.tag.String()),
	)

	return out
}
