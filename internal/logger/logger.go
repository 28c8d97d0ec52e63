package logger

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type implLogger struct {
	logger *logrus.Logger
}

// New creates a new Logger instance backed by logrus
func New(level, format string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &implLogger{logger: l}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Debugf(msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Infof(msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Warnf(msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.logger.Errorf(msg, args...)
}
