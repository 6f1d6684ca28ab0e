package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SkeLLLa/messageformat/intl"
	"github.com/SkeLLLa/messageformat/log"
	"github.com/SkeLLLa/messageformat/message"
)

// Check validates a message without formatting it.
type Check struct {
	Message string `help:"Message file in YAML or JSON, or '-' for stdin." placeholder:"FILE" short:"m" xor:"message"`
	Text    string `help:"Message given inline in YAML or JSON."            placeholder:"YAML" short:"t" xor:"message"`

	Strict bool `help:"Fail when the message calls functions that are not registered."`
}

// Run executes the check command. Structural errors are logged one by one
// and fail the command. Calls to unregistered functions are reported with
// the closest registered names.
func (c *Check) Run(ctx context.Context) error {
	in := Input{Message: c.Message, Text: c.Text}

	msg, err := in.decode(ctx)
	if err != nil {
		return err
	}

	if err := message.Validate(msg); err != nil {
		for _, e := range unjoin(err) {
			log.ErrorContext(ctx, "invalid message", slog.Any("error", e))
		}

		return ErrInvalid.Wrap(err)
	}

	reg := intl.Registry()

	var unknown []string

	for _, name := range functionNames(msg) {
		if _, ok := reg.Lookup(name); ok {
			continue
		}

		unknown = append(unknown, name)

		log.WarnContext(ctx, "unknown function",
			slog.String("name", name),
			slog.Any("suggest", reg.Suggest(name)),
		)
	}

	if _, err := fmt.Fprintln(stdout(ctx), summary(msg)); err != nil {
		return err
	}

	if c.Strict && len(unknown) > 0 {
		return ErrUnknownFunc.With(slog.Any("names", unknown))
	}

	return nil
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}

	return []error{err}
}

// summary describes the shape of a valid message.
func summary(msg message.Message) string {
	switch m := msg.(type) {
	case *message.PatternMessage:
		return fmt.Sprintf("ok: pattern message, %d declarations, %d elements",
			len(m.Declarations), len(m.Pattern))

	case *message.SelectMessage:
		return fmt.Sprintf("ok: select message, %d declarations, %d selectors, %d variants",
			len(m.Declarations), len(m.Selectors), len(m.Variants))
	}

	return "ok"
}

// functionNames returns the sorted names of all functions called by msg.
func functionNames(msg message.Message) []string {
	seen := map[string]struct{}{}

	var walk func(e message.Element)

	walkOptions := func(opts []message.Option) {
		for _, o := range opts {
			walk(o.Value)
		}
	}

	walk = func(e message.Element) {
		switch x := e.(type) {
		case *message.FunctionRef:
			seen[x.Name] = struct{}{}

			if x.Operand != nil {
				walk(x.Operand)
			}

			walkOptions(x.Options)

		case *message.Markup:
			walkOptions(x.Options)
		}
	}

	var decls []message.Declaration

	switch m := msg.(type) {
	case *message.PatternMessage:
		decls = m.Declarations

		for _, e := range m.Pattern {
			walk(e)
		}

	case *message.SelectMessage:
		decls = m.Declarations

		for _, e := range m.Selectors {
			walk(e)
		}

		for _, v := range m.Variants {
			for _, e := range v.Value {
				walk(e)
			}
		}
	}

	for _, d := range decls {
		walk(d.Value)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

