package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SkeLLLa/messageformat/message"
)

// Format formats a message and prints the result.
type Format struct {
	Input `embed:""`

	Strict bool `help:"Fail when the message formats with errors."`
}

// Run executes the format command. Errors recorded while formatting are
// logged as warnings; the formatted text is printed regardless.
func (f *Format) Run(ctx context.Context) error {
	mf, args, err := f.load(ctx)
	if err != nil {
		return err
	}

	var errs message.Collector

	s := mf.Format(args, message.WithErrorSink(errs.Add))

	if _, err := fmt.Fprintln(stdout(ctx), s); err != nil {
		return err
	}

	report(ctx, errs.Errors)

	if f.Strict && len(errs.Errors) > 0 {
		return ErrFormatted.Wrap(errs.Err()).With(slog.Int("count", len(errs.Errors)))
	}

	return nil
}
