package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handler. Styles come from a
// renderer bound to the output, so they render plain text unless the
// output is a color terminal.
type palette struct {
	key, msg, str, num, boolean, time, source lipgloss.Style
	level                                     map[Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:     fg("8"),
		msg:     r.NewStyle().Bold(true),
		str:     fg("6"),
		num:     fg("5"),
		boolean: fg("3"),
		time:    fg("4"),
		source:  fg("8").Italic(true),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("8"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	for _, lv := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if Level(l) >= lv {
			return p.level[lv]
		}
	}

	return p.level[LevelTrace]
}

// field is a flattened attribute. Keys of grouped attributes are joined
// with ".".
type field struct {
	key   string
	value slog.Value
}

// prettyHandler is a [slog.Handler] writing either aligned key=value text
// or indented JSON, one record at a time.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	fields []field
	prefix string
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		style:  newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.fields = flatten(append([]field(nil), h.fields...), h.prefix, attrs)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var head []field

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			head = append(head, field{a.Key, a.Value.Resolve()})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	fields := append(head, h.fields...)
	fields = flatten(fields, h.prefix, attrs)

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeJSON(&buf, r.Level, fields)
	} else {
		h.writeText(&buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten appends attrs to out, resolving [slog.LogValuer] values and
// inlining groups under prefix.
func flatten(out []field, prefix string, attrs []slog.Attr) []field {
	for _, a := range attrs {
		v := a.Value.Resolve()

		if v.Kind() == slog.KindGroup {
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}

			out = flatten(out, p, v.Group())

			continue
		}

		if a.Key == "" {
			continue
		}

		out = append(out, field{prefix + a.Key, v})
	}

	return out
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(f.key + "="))
		buf.WriteString(h.value(level, f, false))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(f.key) + ":"))
		buf.WriteByte(' ')
		buf.WriteString(h.value(level, f, true))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

// value renders the value of f, styled by its kind.
func (h *prettyHandler) value(level slog.Level, f field, asJSON bool) string {
	v := f.value

	quote := textString
	if asJSON {
		quote = jsonString
	}

	switch f.key {
	case slog.LevelKey:
		return h.style.forLevel(level).Render(quote(v.String()))
	case slog.MessageKey:
		return h.style.msg.Render(quote(v.String()))
	case slog.SourceKey:
		return h.style.source.Render(quote(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(quote(v.String()))
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(v.String())
	case slog.KindBool:
		return h.style.boolean.Render(v.String())
	case slog.KindTime:
		return h.style.time.Render(quote(v.Time().Format(time.RFC3339Nano)))
	case slog.KindDuration:
		return h.style.num.Render(quote(v.Duration().String()))
	}

	if err, ok := v.Any().(error); ok {
		return h.style.str.Render(quote(err.Error()))
	}

	if asJSON {
		if b, err := json.Marshal(v.Any()); err == nil {
			return string(b)
		}
	}

	return quote(fmt.Sprint(v.Any()))
}

// textString quotes s only when it would otherwise be ambiguous.
func textString(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}

	return s
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}

	return string(b)
}
