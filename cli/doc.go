// Package cli contains the command line interface for inlinemath.
//
// # Usage
//
//	inlinemath [flags] [process] [PATH...]
//	inlinemath [flags] eval EXPR...
//	inlinemath [flags] repl
//	inlinemath [flags] init [--force]
//
// The process command is the default. It reads each file (directories are
// walked, "-" or no path reads stdin), substitutes every gulpmath(EXPR);
// marker with the rounded result, and writes the output to stdout, in place
// (--in-place), or below a directory (--out-dir). The exit status is
// non-zero when any expression failed.
//
// # Evaluation Options
//
//   - --var, -D NAME=EXPR: bind a variable (repeatable)
//   - --vars FILE: YAML or JSON mapping of bindings, in file order
//   - --epsilon, --eval-precision, --matrix, --number, --precision
//   - --marker: name of the enclosing call (default gulpmath)
//   - --fail-fast: stop at the first failed expression
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o inlinemath .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/inlinemath/pprof)
//
// # Configuration Files
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (e.g. ~/.config/inlinemath). The YAML file maps
// flag names to values; see the init command for a template:
//
//	eval-precision: 4
//	number: bignumber
//	var:
//	  gutter: 4
//
// # Examples
//
//	# Substitute into a stylesheet
//	inlinemath -D gutter=4 styles.less > styles.out.less
//
//	# Rewrite every .less file below src in place
//	inlinemath --ext less --in-place src
//
//	# Evaluate with arbitrary precision
//	inlinemath --number bignumber --precision 30 eval "1 / 3"
package cli
