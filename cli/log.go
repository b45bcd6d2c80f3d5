package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/inlinemath/log"
)

// logFormat applies the record encoding to the default logger as soon as
// kong decodes --log-format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel applies the minimum severity to the default logger as soon as
// kong decodes --log-level, so errors about later flags already honor it.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logConfig holds the diagnostics flags shared by every command. Substituted
// text goes to stdout; everything configured here goes to stderr.
type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevelEnum}"  help:"Minimum severity of diagnostics (trace shows every evaluation)."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormatEnum}" help:"Encoding of diagnostic records."`
	TimeLayout string    `default:"RFC3339"                               help:"Timestamp layout, by name (RFC3339, Kitchen, ...) or as a Go layout."`
	Caller     bool      `default:"false"                                 help:"Annotate diagnostics with their source location."                    negatable:""`
	Pretty     bool      `default:"true"                                  help:"Colorize diagnostics."                                                negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      log.DefaultLevel.String(),
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":     log.DefaultFormat.String(),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Diagnostics options"}
}

// start applies every parsed flag to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the --log-* flags found in args before kong parses them.
// Configuration files are loaded and bindings evaluated during parsing, and
// their diagnostics must already use the requested settings.
//
// Scanning stops at "--": the arguments after it are paths or expression
// text, which may look like flags.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		var negated bool

		if rest, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negated = rest, true
		} else if rest, ok := strings.CutPrefix(name, "--log-"); ok {
			name = rest
		} else {
			continue
		}

		// operand returns the flag's value, consuming the next argument when
		// it was not attached with "=".
		operand := func() (string, bool) {
			if assigned {
				return value, true
			}

			if i+1 < len(args) && args[i+1] != "" && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i], true
			}

			return "", false
		}

		switch name {
		case "level":
			if v, ok := operand(); ok && !negated {
				_ = f.Level.UnmarshalText([]byte(v))
			}

		case "format":
			if v, ok := operand(); ok && !negated {
				_ = f.Format.UnmarshalText([]byte(v))
			}

		case "time-layout":
			if v, ok := operand(); ok && !negated {
				f.TimeLayout = v
				log.Config(log.WithTimeLayout(v))
			}

		case "caller":
			if v, ok := toggle(value, assigned, negated); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}

		case "pretty":
			if v, ok := toggle(value, assigned, negated); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}
		}
	}
}

// toggle returns the state selected by a negatable boolean flag. A value
// attached with "=" must parse as a bool.
func toggle(value string, assigned, negated bool) (on, ok bool) {
	on = true

	if assigned {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}

		on = b
	}

	return on != negated, true
}
