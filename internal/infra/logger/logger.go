package logger

import (
	"log/slog"
	"os"
)

// New — JSON-логгер процесса. В dev включается debug; атрибуты service/env
// вешаются сразу, чтобы бот и HTTP-sidecar различались в агрегаторе.
func New(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "school-bot", "env", env)
}
