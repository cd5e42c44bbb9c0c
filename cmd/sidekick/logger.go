package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

var logOutput io.Writer = os.Stderr

// newLogger builds the stderr logger. SK_DEBUG=1 lowers the level so
// per-turn commits and MCP chatter become visible; the default keeps the
// console clean for the session panels.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(logOutput, &tint.Options{
		Level:      level,
		AddSource:  false,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
		NoColor:    false,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}
