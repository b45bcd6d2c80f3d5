// Package log provides a simplified structured logging interface based on
// [log/slog].
//
// A [Logger] is an immutable value. Options are applied when the logger is
// created with [Make] or derived with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// Attributes attached with [Logger.With] are included in every subsequent
// message:
//
//	logger = logger.With(slog.String("file", "site.css"))
//	logger.Info("substituted", slog.Int("count", 4))
//
// The zero Logger discards everything, so components can hold one without
// checking for nil.
//
// The package-level functions ([Info], [Error], ...) write through a default
// logger that the command line reconfigures with [Config].
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Trace is below slog's Debug and is rendered as "TRACE".
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled, text
// output is colorized and JSON output is indented.
package log
