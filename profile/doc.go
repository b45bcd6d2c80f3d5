// Package profile provides optional runtime profiling for inlinemath.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only when
// building with the pprof tag:
//
//	go build -tags pprof .
//
// Without the tag, [Start] always returns a no-op [Stopper] and [Modes]
// returns nil, so callers need no conditional code.
//
// # Modes
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Each writes its data as <mode>.pprof (or
// trace.out) into the configured directory:
//
//	stop := profile.Start(
//		profile.WithMode("cpu"),
//		profile.WithDir("/tmp/profiles"),
//		profile.WithQuiet(true),
//	)
//	defer stop.Stop()
//
// The CLI exposes the same parameters as --pprof-mode and --pprof-dir, with
// the directory defaulting to $XDG_CACHE_HOME/inlinemath/pprof.
//
// # Analysis
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile
