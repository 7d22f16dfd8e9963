// Package logging provides structured logging for both CLI and GUI modes.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gns3/gns3-desktop/internal/constants"
)

// Logger wraps zerolog with mode-specific behavior.
type Logger struct {
	zlog   zerolog.Logger
	mode   string // "cli" or "gui"
	output io.Writer
	file   *lumberjack.Logger
}

// Options configures NewLogger.
type Options struct {
	// Mode is "cli" (logs on stdout, stderr reserved for progress bars) or "gui".
	Mode string

	// File enables a rotating log file in addition to the console. Empty means none.
	File string
}

// NewLogger creates a new logger for the specified mode.
func NewLogger(opts Options) *Logger {
	out := os.Stdout
	if opts.Mode != "cli" {
		out = os.Stderr
	}

	l := &Logger{mode: opts.Mode}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    constants.LogFileMaxSizeMB,
			MaxBackups: constants.LogFileMaxBackups,
			MaxAge:     constants.LogFileMaxAgeDays,
			Compress:   true,
		}
	}
	l.SetOutput(out)
	return l
}

// NewDefaultCLILogger creates a default CLI logger.
func NewDefaultCLILogger() *Logger {
	return NewLogger(Options{Mode: "cli"})
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{zlog: zerolog.Nop(), mode: "nop", output: io.Discard}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// With creates a child logger with additional context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Child returns a Logger carrying the fields built on ctx.
func (l *Logger) Child(ctx zerolog.Context) *Logger {
	return &Logger{
		zlog:   ctx.Logger(),
		mode:   l.mode,
		output: l.output,
		file:   l.file,
	}
}

// SetOutput changes the console writer for the logger.
// This is useful for redirecting logs through progress bars.
// The rotating file, if any, keeps receiving JSON lines.
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}

	var sink io.Writer = console
	if l.file != nil {
		sink = zerolog.MultiLevelWriter(console, l.file)
	}
	l.zlog = zerolog.New(sink).With().Timestamp().Logger()
}

// Output returns the current console writer.
func (l *Logger) Output() io.Writer {
	return l.output
}

// Close flushes and closes the rotating log file, if one is open.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debugf logs a debug message with printf-style formatting.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Errorf logs an error message with printf-style formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel maps a config/flag value ("debug", "info", ...) to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
