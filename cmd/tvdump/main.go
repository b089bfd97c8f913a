package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ehrlich-b/tvdump/internal/cli"
)

func main() {
	setupLogger()

	if err := cli.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger logs text to a terminal and JSON otherwise, so cron captures
// stay machine-readable. TVDUMP_DEBUG enables debug logging.
func setupLogger() {
	level := slog.LevelInfo
	if os.Getenv("TVDUMP_DEBUG") != "" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
