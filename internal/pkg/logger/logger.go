package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	Level         slog.Level
	LogFile       string
	LogToStderr   bool
	AlsoLogStderr bool
	Format        string // "json" or "text"
}

// SetupLogger creates a configured slog logger
func SetupLogger(cfg Config) (*slog.Logger, error) {
	var writers []io.Writer

	// File output (default)
	if cfg.LogFile != "" {
		// Ensure directory exists
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}

		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
	}

	// Stderr output
	if cfg.LogToStderr || cfg.AlsoLogStderr {
		writers = append(writers, os.Stderr)
	}

	// Create handler based on format
	var handler slog.Handler
	writer := io.MultiWriter(writers...)

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: true, // Always add source file and line number
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), nil
}

// ParseLevel converts a string to slog.Level
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithAccount scopes a logger to a member account
func WithAccount(logger *slog.Logger, accountID int64) *slog.Logger {
	return logger.With("account_id", accountID)
}

// WithProvider scopes a logger to an identity provider
func WithProvider(logger *slog.Logger, provider string) *slog.Logger {
	return logger.With("provider", provider)
}

// GetDefaultLogFile returns the default log file path for a component
func GetDefaultLogFile(component string) string {
	configDir, _ := os.UserConfigDir()
	if configDir == "" {
		configDir = "."
	}
	logDir := filepath.Join(configDir, "greenhouse")
	return filepath.Join(logDir, component+".log")
}
