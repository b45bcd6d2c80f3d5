package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/inlinemath/log"
)

func Example_textFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("substituted", slog.String("file", "site.css"), slog.Int("count", 2))
	// Output: level=INFO msg=substituted file=site.css count=2
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("hidden")
	logger.Warn("shown", slog.String("key", "value"))
	// Output: {"level":"WARN","msg":"shown","key":"value"}
}
