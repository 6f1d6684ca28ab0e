// Package log is a small structured logger over [log/slog].
//
// A [Logger] is configured once, when it is made, with functional
// options. Its level methods take [slog.Attr] values only, and it adds a
// trace level below debug for step-by-step diagnostics:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Trace("selected variant", slog.Int("index", 2))
//
// Records are written either by the standard text and JSON handlers or,
// with [WithPretty], by a handler that styles them with lipgloss when the
// output is a terminal. Values implementing [slog.LogValuer] are resolved
// and groups are flattened into dotted keys.
//
// The package-level functions such as [Info] and [Config] use a default
// logger writing to standard error.
package log
