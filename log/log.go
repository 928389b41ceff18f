// Package log provides a leveled, structured logger for the whole project,
// backed by zerolog. It exposes a small sugar API (Infow, Debugw, ...) so
// callers never deal with the underlying logger directly.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	outputStdout = "stdout"
	outputStderr = "stderr"

	// logTestWriterName is a reserved output name used by tests and
	// benchmarks to redirect the logger to an in-memory writer.
	logTestWriterName = "_testWriter"
)

var (
	// logger discards everything until Init is called.
	logger = zerolog.Nop()
	level  string

	// logTestWriter is the writer used when the output is logTestWriterName.
	logTestWriter io.Writer = io.Discard

	// panicOnInvalidChars triggers a panic when a log line contains invalid
	// UTF-8, to catch raw binary accidentally reaching the logs. Controlled
	// by the LOG_PANIC_ON_INVALIDCHARS environment variable.
	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"
)

// invalidCharChecker wraps a writer and panics if a write contains invalid
// UTF-8. Only active when panicOnInvalidChars is set.
type invalidCharChecker struct {
	io.Writer
}

func (w invalidCharChecker) Write(p []byte) (int, error) {
	if !utf8.Valid(p) {
		panic(fmt.Sprintf("log line with invalid chars: %q", string(p)))
	}
	return w.Writer.Write(p)
}

// Init initializes the global logger with the given level and output. The
// output can be "stdout", "stderr" or a file path. The errorOutput, if not
// nil, receives an additional copy of every message of level error or above.
func Init(logLevel, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case outputStdout:
		out = os.Stdout
	case outputStderr:
		out = os.Stderr
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	if panicOnInvalidChars {
		out = invalidCharChecker{out}
	}
	if errorOutput != nil {
		out = zerolog.MultiLevelWriter(out, errorLevelWriter{errorOutput})
	}
	zlevel, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		zlevel = zerolog.InfoLevel
	}
	level = zlevel.String()
	logger = zerolog.New(out).Level(zlevel).With().Timestamp().Logger()
}

// errorLevelWriter forwards only error-or-above lines to the wrapped writer.
type errorLevelWriter struct {
	io.Writer
}

func (w errorLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < zerolog.ErrorLevel {
		return len(p), nil
	}
	return w.Write(p)
}

// Level returns the current log level as a string.
func Level() string {
	return level
}

// withKV attaches alternating key/value pairs to a zerolog event.
func withKV(ev *zerolog.Event, keysAndValues ...any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}

func Debug(args ...any)                 { logger.Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)                  { logger.Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)                  { logger.Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any)                 { logger.Error().Msg(fmt.Sprint(args...)) }
func Debugf(format string, args ...any) { logger.Debug().Msgf(format, args...) }
func Infof(format string, args ...any)  { logger.Info().Msgf(format, args...) }
func Warnf(format string, args ...any)  { logger.Warn().Msgf(format, args...) }
func Errorf(format string, args ...any) { logger.Error().Msgf(format, args...) }
func Debugw(msg string, kv ...any)      { withKV(logger.Debug(), kv...).Msg(msg) }
func Infow(msg string, kv ...any)       { withKV(logger.Info(), kv...).Msg(msg) }
func Warnw(msg string, kv ...any)       { withKV(logger.Warn(), kv...).Msg(msg) }
func Fatalf(format string, args ...any) { logger.Fatal().Msgf(format, args...) }
func Fatal(args ...any)                 { logger.Fatal().Msg(fmt.Sprint(args...)) }

// Errorw logs an error with an accompanying message.
func Errorw(err error, msg string) {
	logger.Error().Err(err).Msg(msg)
}
