package logger

import (
	"log/slog"
	"os"
)

// EnvDev — значение app.env, включающее debug-уровень; в остальных
// окружениях пишется только info и выше.
const EnvDev = "dev"

// New — JSON-логгер бота в stdout.
func New(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == EnvDev {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("service", "sklad-bot")
}
