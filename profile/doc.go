// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	messageformat --pprof-mode cpu format -m '{hello}'
//	go tool pprof ~/.cache/messageformat/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Config.Start] does nothing.
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace.
package profile
