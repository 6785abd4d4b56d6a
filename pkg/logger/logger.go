package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/natefinch/lumberjack"
)

// Log type constants
const (
	TypeConsole = "console"
	TypeFile    = "file"
)

// Settings configures the package logger.
type Settings struct {
	Level      string `validate:"required,oneof=debug info warn warning error"`
	Type       string `validate:"required,oneof=console file"`
	FilePath   string `validate:"required_if=Type file"`
	MaxSize    int    `validate:"omitempty,min=1,max=100"`
	MaxBackups int    `validate:"omitempty,min=1,max=10"`
	MaxAge     int    `validate:"omitempty,min=1,max=365"`
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for logger settings: %w", err)
	}
	return nil
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	closer io.Closer
)

func init() {
	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// Init replaces the package logger according to settings.
func Init(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	var (
		w io.Writer = os.Stdout
		c io.Closer
	)
	if settings.Type == TypeFile {
		rotating := &lumberjack.Logger{
			Filename:   settings.FilePath,
			MaxSize:    settings.MaxSize,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAge,
			Compress:   true,
		}
		w, c = rotating, rotating
	}

	SetOutput(w, parseLevel(settings.Level))

	mu.Lock()
	closer = c
	mu.Unlock()

	return nil
}

// SetOutput writes JSON logs at level and above to w.
func SetOutput(w io.Writer, level slog.Level) {
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))

	mu.Lock()
	logger = l
	mu.Unlock()
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// Slog returns the underlying structured logger.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Info logs the provided message at [InfoLevel].
func Info(msg string) {
	Slog().Info(msg)
}

// Debug logs the provided message at [DebugLevel].
func Debug(msg string) {
	Slog().Debug(msg)
}

// Warn logs the provided message at [WarnLevel].
func Warn(msg string) {
	Slog().Warn(msg)
}

// Error logs the provided message at [ErrorLevel].
func Error(msg string) {
	Slog().Error(msg)
}
