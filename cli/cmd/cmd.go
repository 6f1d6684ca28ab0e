package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying the parsed kong context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the kong application in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource names standard input in place of a file path.
const stdinSource = "-"

// stdin is read for the "-" source.
var stdin io.Reader = os.Stdin

// readSource returns the contents of the file at path, or of standard
// input if path is "-".
func readSource(path string) ([]byte, error) {
	if path == stdinSource {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}
