// ABOUTME: Structured slog logger setup shared by every package
// ABOUTME: JSON output with lowercase level and msg keys for log forwarding
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide fallback logger. Components receive an injected
// *slog.Logger; this global exists for code paths without one.
var Logger *slog.Logger = slog.Default()

// Config holds logger settings loaded from the environment.
type Config struct {
	Level       string
	ServiceName string
}

// LoadConfigFromEnv reads LOG_LEVEL and SERVICE_NAME with defaults.
func LoadConfigFromEnv() *Config {
	return &Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "news-optimizer"),
	}
}

// New builds a JSON slog logger writing to output.
func New(output io.Writer, cfg *Config) *slog.Logger {
	options := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(level.String()))}
				}
				return a
			case slog.MessageKey:
				return slog.Attr{Key: "msg", Value: a.Value}
			default:
				return a
			}
		},
	}

	handler := slog.NewJSONHandler(output, options)

	return slog.New(handler).With("service", cfg.ServiceName)
}

// Init builds the logger from the environment and installs it as the global.
func Init() *slog.Logger {
	log := New(os.Stdout, LoadConfigFromEnv())
	Logger = log
	slog.SetDefault(log)

	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
