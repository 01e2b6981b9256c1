package middleware

import "github.com/sirupsen/logrus"

// LogrusLogger adapts a logrus logger to the Logger interface.
type LogrusLogger struct {
	log *logrus.Logger
}

// NewLogrusLogger creates a Logger backed by the given logrus logger.
func NewLogrusLogger(log *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) entry(fields []Field) *logrus.Entry {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return l.log.WithFields(lf)
}

func (l *LogrusLogger) Info(msg string, fields ...Field)  { l.entry(fields).Info(msg) }
func (l *LogrusLogger) Error(msg string, fields ...Field) { l.entry(fields).Error(msg) }
func (l *LogrusLogger) Debug(msg string, fields ...Field) { l.entry(fields).Debug(msg) }
func (l *LogrusLogger) Warn(msg string, fields ...Field)  { l.entry(fields).Warn(msg) }
