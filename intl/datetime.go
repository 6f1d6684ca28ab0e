package intl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SkeLLLa/messageformat/message"
)

// dateLayouts maps the dateStyle and timeStyle option values, and named
// layouts, to Go reference layouts.
var (
	dateLayouts = map[string]string{
		"full":   "Monday, January 2, 2006",
		"long":   "January 2, 2006",
		"medium": "Jan 2, 2006",
		"short":  "2006-01-02",
	}

	timeLayouts = map[string]string{
		"full":   "15:04:05 MST",
		"long":   "15:04:05 MST",
		"medium": "15:04:05",
		"short":  "15:04",
	}

	namedLayouts = map[string]string{
		"rfc3339":     time.RFC3339,
		"rfc3339nano": time.RFC3339Nano,
		"rfc1123":     time.RFC1123,
		"rfc822":      time.RFC822,
		"kitchen":     time.Kitchen,
		"date":        time.DateOnly,
		"time":        time.TimeOnly,
		"datetime":    time.DateTime,
	}
)

// dateTimeValue is a formatted time value.
type dateTimeValue struct {
	time time.Time
	text string
}

func (d dateTimeValue) String() string { return d.text }

// Time returns the time value.
func (d dateTimeValue) Time() time.Time { return d.time }

func datetime(loc *time.Location) func(message.Context, message.Options, *message.Value) (any, error) {
	return func(ctx message.Context, opts message.Options, operand *message.Value) (any, error) {
		if operand == nil {
			return nil, message.ErrBadOperand.Wrap(errors.New("missing operand"))
		}

		t, err := timeOf(operand.Raw)
		if err != nil {
			return nil, message.ErrBadOperand.Wrap(err).With(slog.String("operand", operand.Source))
		}

		if loc != nil {
			t = t.In(loc)
		}

		layout, err := dateTimeLayout(opts)
		if err != nil {
			return nil, err
		}

		return dateTimeValue{time: t, text: t.Format(layout)}, nil
	}
}

// timeOf converts a host value to a time. Strings are parsed as RFC 3339
// or as a date, and integers are Unix seconds.
func timeOf(raw any) (time.Time, error) {
	switch x := raw.(type) {
	case time.Time:
		return x, nil
	case *time.Time:
		if x != nil {
			return *x, nil
		}
	case dateTimeValue:
		return x.time, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}

		return time.Time{}, fmt.Errorf("not a time: %q", x)
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case numeric:
		if sec, ok := x.Number().(int64); ok {
			return time.Unix(sec, 0).UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("not a time: %v", raw)
}

// dateTimeLayout resolves the layout, dateStyle and timeStyle options.
// Without options, the medium date and short time styles are used.
func dateTimeLayout(opts message.Options) (string, error) {
	if s, ok := opts.String("layout"); ok {
		if named, ok := namedLayouts[strings.ToLower(s)]; ok {
			return named, nil
		}

		return s, nil
	}

	dateStyle, hasDate := opts.String("dateStyle")
	timeStyle, hasTime := opts.String("timeStyle")

	if !hasDate && !hasTime {
		dateStyle, timeStyle, hasDate, hasTime = "medium", "short", true, true
	}

	var parts []string

	if hasDate {
		l, ok := dateLayouts[dateStyle]
		if !ok {
			return "", message.ErrBadOption.With(
				slog.String("option", "dateStyle"),
				slog.String("value", dateStyle),
			)
		}

		parts = append(parts, l)
	}

	if hasTime {
		l, ok := timeLayouts[timeStyle]
		if !ok {
			return "", message.ErrBadOption.With(
				slog.String("option", "timeStyle"),
				slog.String("value", timeStyle),
			)
		}

		parts = append(parts, l)
	}

	return strings.Join(parts, " "), nil
}
