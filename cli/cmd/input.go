package cmd

import (
	"context"
	"log/slog"
	"maps"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/SkeLLLa/messageformat/intl"
	"github.com/SkeLLLa/messageformat/log"
	"github.com/SkeLLLa/messageformat/message"
)

// Input holds the flags selecting a message, its locales, and its
// arguments. It is embedded by the commands that format messages.
type Input struct {
	Message string `help:"Message file in YAML or JSON, or '-' for stdin." placeholder:"FILE" short:"m" xor:"message"`
	Text    string `help:"Message given inline in YAML or JSON."            placeholder:"YAML" short:"t" xor:"message"`

	Locale []string `default:"en" help:"Locales in order of preference." placeholder:"TAG" short:"l"`

	Arg    []string `help:"Argument NAME=EXPR. EXPR is an expr-lang expression over the arguments before it." placeholder:"NAME=EXPR" sep:"none" short:"a"`
	String []string `help:"Argument NAME=TEXT with a literal string value."                                      placeholder:"NAME=TEXT" sep:"none" short:"s"`
	Args   string   `help:"Argument file in YAML or JSON, or '-' for stdin."                                      placeholder:"FILE"`

	MaxDepth int `default:"100" help:"Maximum nesting of declaration references."`
}

// decode reads and decodes the message.
func (in *Input) decode(ctx context.Context) (message.Message, error) {
	var (
		data []byte
		src  = in.Message
	)

	switch {
	case in.Text != "":
		data, src = []byte(in.Text), "--text"

	case in.Message != "":
		var err error

		data, err = readSource(in.Message)
		if err != nil {
			return nil, ErrReadInput.Wrap(err).With(slog.String("file", in.Message))
		}

	default:
		return nil, ErrNoMessage
	}

	msg, err := message.Decode(ctx, data)
	if err != nil {
		return nil, ErrDecodeMessage.Wrap(err).With(slog.String("source", src))
	}

	return msg, nil
}

// arguments merges the argument file with the --arg and --string flags,
// which take precedence in the order given.
func (in *Input) arguments(ctx context.Context) (message.Args, error) {
	args := message.Args{}

	if in.Args != "" {
		data, err := readSource(in.Args)
		if err != nil {
			return nil, ErrReadInput.Wrap(err).With(slog.String("file", in.Args))
		}

		if args, err = message.DecodeArgs(ctx, data); err != nil {
			return nil, ErrDecodeArgs.Wrap(err).With(slog.String("file", in.Args))
		}

		if args == nil {
			args = message.Args{}
		}
	}

	for _, s := range in.String {
		name, text, err := splitArg(s)
		if err != nil {
			return nil, err
		}

		args[name] = text
	}

	for _, s := range in.Arg {
		name, src, err := splitArg(s)
		if err != nil {
			return nil, err
		}

		v, err := evalArg(src, args)
		if err != nil {
			return nil, ErrArgEval.Wrap(err).With(slog.String("name", name))
		}

		log.TraceContext(ctx, "argument", slog.String("name", name), slog.Any("value", v))

		args[name] = v
	}

	return args, nil
}

// load decodes the message and its arguments and prepares the message for
// formatting with the default and intl functions.
func (in *Input) load(ctx context.Context) (*message.MessageFormat, message.Args, error) {
	msg, err := in.decode(ctx)
	if err != nil {
		return nil, nil, err
	}

	args, err := in.arguments(ctx)
	if err != nil {
		return nil, nil, err
	}

	mf, err := message.New(msg, in.Locale,
		message.WithRegistry(intl.Registry()),
		message.WithLogger(log.Default()),
		message.WithMaxDepth(in.MaxDepth),
		message.WithContext(ctx),
	)
	if err != nil {
		return nil, nil, ErrInvalid.Wrap(err)
	}

	log.DebugContext(ctx, "message loaded",
		slog.Any("locales", mf.Locales()),
		slog.String("locale", mf.Locale().String()),
		slog.Int("args", len(args)),
	)

	return mf, args, nil
}

func splitArg(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" {
		return "", "", ErrArgSyntax.With(slog.String("arg", s))
	}

	return name, value, nil
}

// evalArg evaluates src with the arguments defined so far in scope.
func evalArg(src string, args message.Args) (any, error) {
	return expr.Eval(src, maps.Clone(map[string]any(args)))
}

// report logs each error recorded while formatting.
func report(ctx context.Context, errs []error) {
	for _, err := range errs {
		log.WarnContext(ctx, "message error", slog.Any("error", err))
	}
}
