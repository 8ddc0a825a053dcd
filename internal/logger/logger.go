package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/internal/config"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg)
}

// New builds a logger writing to w: JSON in production, text otherwise.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithSession adds the session ID to logger context
func WithSession(logger *slog.Logger, sessionID uuid.UUID) *slog.Logger {
	return logger.With("session_id", sessionID.String())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
