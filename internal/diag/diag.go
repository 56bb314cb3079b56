// Package diag provides the engine's structured logging. Every pipeline
// stage (parse, optimize, codegen, finalize, run) emits one entry with
// fields describing what happened, using field-tagged, leveled logging
// rather than ad-hoc fmt.Printf calls.
package diag

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus.FieldLogger (satisfied by both *logrus.Logger and
// *logrus.Entry) so call sites never import logrus directly, and so
// WithField can return a Logger carrying a permanently-attached field
// without losing the Stage/Failure helpers.
type Logger struct {
	logrus.FieldLogger
}

// New builds a Logger writing to w at level, using either the text or the
// JSON formatter.
func New(w io.Writer, level string, jsonFormat bool) *Logger {
	l := logrus.New()
	l.SetOutput(w)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &Logger{FieldLogger: l}
}

// Default returns a Logger writing text-formatted entries to stderr at
// info level — the engine's baseline when the CLI hasn't overridden
// anything.
func Default() *Logger {
	return New(os.Stderr, "info", false)
}

// WithField returns a Logger with field permanently attached to every
// subsequent entry, e.g. tagging every log line in a run with its run ID.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{FieldLogger: l.FieldLogger.WithField(key, value)}
}

// Stage logs one pipeline stage's completion with structured fields: stage
// name, bytes processed (IR node count, code byte count, tape size —
// whatever's meaningful for that stage), and how long it took.
func (l *Logger) Stage(stage string, bytes int, durationMS float64) {
	l.WithFields(logrus.Fields{
		"stage":       stage,
		"bytes":       bytes,
		"duration_ms": durationMS,
	}).Debug("pipeline stage complete")
}

// Failure logs err at Error level, tagged with the stage it occurred in.
func (l *Logger) Failure(stage string, err error) {
	l.WithFields(logrus.Fields{"stage": stage}).WithError(err).Error("pipeline stage failed")
}
