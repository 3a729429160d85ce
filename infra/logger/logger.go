// Package logger emits the pipeline's structured logs via rs/zerolog.
// Every line carries the emitting component; orchestrator and worker
// loggers additionally stamp the run id or the partition's task id, so
// interleaved worker output stays attributable.
package logger

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	corelogger "github.com/kfeurstein/flexion/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. The environment is detected
// via the APP_ENV variable: "dev" switches to human-readable console output.
func New(component string) Logger {
	return &zerologLogger{log: base(component).Logger()}
}

// ForRun returns a Logger that stamps the pipeline run id on every line,
// giving all five phases of one invocation a shared grep key.
func ForRun(component, runID string) Logger {
	return &zerologLogger{log: base(component).Str("run_id", runID).Logger()}
}

// ForTask returns a Logger for one partition worker. The task id is carried
// as a standing field rather than repeated per message.
func ForTask(component string, taskID int) Logger {
	return &zerologLogger{log: base(component).Str("task", strconv.Itoa(taskID)).Logger()}
}

func base(component string) zerolog.Context {
	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component)
}

type zerologLogger struct {
	log zerolog.Logger
}

func (l *zerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *zerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
