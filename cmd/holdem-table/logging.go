package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/config"
)

// setupLogger builds the host logger. Logs go to the configured file when
// there is one so they don't interleave with the table output.
func setupLogger(cfg config.LoggingConfig, debug bool) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logging level: %w", err)
		}
		level = parsed
	}
	if debug {
		level = log.DebugLevel
	}

	var w io.Writer = os.Stderr
	closer := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	return logger, closer, nil
}
