package main

import (
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

var level = new(slog.LevelVar)

// newLogger logs to the terminal at the current level, and if trace is
// set, everything to trace as JSON.
func newLogger(terminal io.Writer, trace io.Writer) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(terminal, &slog.HandlerOptions{
			Level: level,
		}),
	}

	if trace != nil {
		handlers = append(handlers, slog.NewJSONHandler(trace, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
