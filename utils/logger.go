package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger provides leveled, printf-style logging throughout the application.
// Every logger created by NewLogger carries a TraceId that identifies the run.
type Logger struct {
	entry *logrus.Entry
}

// LoggerOptions tunes the underlying logrus logger.
type LoggerOptions struct {
	// Production switches to JSON output.
	Production bool
	// Level is a logrus level name ("debug", "info", ...). Empty means info.
	Level string
	Out   io.Writer
}

// NewLogger creates a development Logger writing to stdout.
func NewLogger() *Logger {
	return NewLoggerWithOptions(LoggerOptions{})
}

// NewLoggerWithOptions creates a Logger configured from opts.
func NewLoggerWithOptions(opts LoggerOptions) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger := &logrus.Logger{
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	if opts.Production {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{
			ForceColors:      true,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			QuoteEmptyFields: true,
		}
	}

	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			logger.Warnf("unknown log level %q, using info", opts.Level)
		} else {
			logger.Level = level
		}
	}

	return &Logger{entry: logger.WithField("TraceId", uuid.New().String())}
}

// WithField returns a Logger that adds key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithError returns a Logger that adds the error to every line.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debug(fmt.Sprintf(format, args...))
}
