// Package log is the process wide logger. Output goes to stderr so that
// stdout only carries command results.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

func init() {
	Logger = NewConsoleLogger(os.Stderr, "warn")
}

// Init replaces the global logger.
func Init(w io.Writer, level string) {
	Logger = NewConsoleLogger(w, level)
}

// NewConsoleLogger creates a human readable logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	}

	return zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to zerolog.Level. Unknown names map to warn.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func Debugf(format string, v ...any) {
	Logger.Debug().Msg(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	Logger.Info().Msg(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	Logger.Warn().Msg(fmt.Sprintf(format, v...))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
