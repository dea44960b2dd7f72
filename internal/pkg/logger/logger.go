package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/angkut-id/dispatch/internal/pkg/models"
)

var std = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	return l
}

// Init configures the package-level logger from application config.
func Init(cfg models.LoggerConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	std.SetLevel(level)

	if cfg.Format == "text" {
		std.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339, FullTimestamp: true})
	}
}

// Debug logs a message at debug level with structured fields.
func Debug(msg string, fields ...Field) {
	std.WithFields(toLogrus(fields)).Debug(msg)
}

// Info logs a message at info level with structured fields.
func Info(msg string, fields ...Field) {
	std.WithFields(toLogrus(fields)).Info(msg)
}

// Warn logs a message at warn level with structured fields.
func Warn(msg string, fields ...Field) {
	std.WithFields(toLogrus(fields)).Warn(msg)
}

// Error logs a message at error level with structured fields.
func Error(msg string, fields ...Field) {
	std.WithFields(toLogrus(fields)).Error(msg)
}

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
