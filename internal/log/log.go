// Package log wraps logrus with a context-scoped logger, so request
// fields such as the request id follow a call down into the SOAP adapter.
package log

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var rootLogger = logrus.NewEntry(logrus.StandardLogger())

// L accesses the current logger from the context
var L = loggerFromContext

type ctxLogKey struct{}

// InitConfig sets the level and output format of the root logger.
// Unknown levels fall back to info; format "json" selects the JSON formatter.
func InitConfig(level, format string) {
	SetLevel(level)

	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// WithLogger adds the specified logger to the context
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxLogKey{}, logger)
}

// WithLogField adds the specified field to the logger in the context
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > 61 {
		value = value[0:61] + "..."
	}
	return WithLogger(ctx, loggerFromContext(ctx).WithField(key, value))
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return rootLogger
	}
	logger, ok := ctx.Value(ctxLogKey{}).(*logrus.Entry)
	if !ok {
		return rootLogger
	}
	return logger
}

// Writer returns an io.Writer that logs each written line at info level.
// The fiber access logger writes through it.
func Writer() io.Writer {
	return logrus.StandardLogger().WriterLevel(logrus.InfoLevel)
}
