// Package cli contains the messageformat command line interface.
//
// # Usage
//
//	messageformat format -m greeting.yaml -l de -a count=3 -s name=Ana
//	messageformat parts -t 'pattern: ["Hi ", {var: n}]' -a n=1e3 -o json
//	messageformat check -m greeting.yaml --strict
//	messageformat functions
//	messageformat --log-level=debug init --force
//
// # Configuration
//
// Global flags are read from config.yaml in the user configuration
// directory (for example ~/.config/messageformat/config.yaml). Keys are
// flag names; nested mappings join with "-". The init command writes the
// current values of the global flags there. Flags given on the command
// line take precedence.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout, by name or Go reference layout
//   - --[no-]log-caller: include the call site
//   - --[no-]log-pretty: style output on terminals
//
// Logger flags take effect before the rest of the command line is parsed.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profiler mode (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: output directory (default ~/.cache/messageformat/pprof)
package cli
