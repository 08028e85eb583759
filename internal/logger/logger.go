// Package logger provides context-aware structured logging
// on top of zap with rotating file output.
package logger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/KretovDmitry/goalias/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a logger that supports log levels, context and structured logging.
type Logger interface {
	// With returns a logger based off the root logger and decorates it with
	// the given context and arguments.
	With(ctx context.Context, args ...interface{}) Logger

	// Debug uses fmt.Sprint to construct and log a message at DEBUG level.
	Debug(args ...interface{})
	// Info uses fmt.Sprint to construct and log a message at INFO level.
	Info(args ...interface{})
	// Warn uses fmt.Sprint to construct and log a message at WARN level.
	Warn(args ...interface{})
	// Error uses fmt.Sprint to construct and log a message at ERROR level.
	Error(args ...interface{})

	// Debugf uses fmt.Sprintf to construct and log a message at DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof uses fmt.Sprintf to construct and log a message at INFO level.
	Infof(format string, args ...interface{})
	// Warnf uses fmt.Sprintf to construct and log a message at WARN level.
	Warnf(format string, args ...interface{})
	// Errorf uses fmt.Sprintf to construct and log a message at ERROR level.
	Errorf(format string, args ...interface{})

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

type contextKey int

const (
	requestIDKey contextKey = iota
	correlationIDKey
)

var _ Logger = (*logger)(nil)

// New creates a new logger that writes human readable entries to stdout
// and JSON entries to a rotating log file.
func New(cfg config.Logger) Logger {
	stdout := zapcore.AddSync(os.Stdout)

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, defaulting to INFO: %v\n", cfg.Level, err)
		level = zapcore.InfoLevel
	}
	logLevel := zap.NewAtomicLevelAt(level)

	developmentCfg := zap.NewDevelopmentEncoderConfig()
	developmentCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(developmentCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, stdout, logLevel),
	}

	// log to the file only if the path is set
	if cfg.Path != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,  // megabytes
			MaxBackups: cfg.MaxBackups, // max num of old log files
			MaxAge:     cfg.MaxAgeDays, // days
			Compress:   true,
		})

		productionCfg := zap.NewProductionEncoderConfig()
		productionCfg.TimeKey = "timestamp"
		productionCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileEncoder := zapcore.NewJSONEncoder(productionCfg)

		cores = append(cores, zapcore.NewCore(fileEncoder, file, logLevel).
			With(buildFields()))
	}

	return NewWithZap(zap.New(zapcore.NewTee(cores...)))
}

// NewWithZap creates a new logger using the pre-configured zap logger.
func NewWithZap(l *zap.Logger) Logger {
	return &logger{l.Sugar()}
}

// NewForTest returns a new logger and the corresponding observed logs
// which can be used in unit tests to verify log entries.
func NewForTest() (Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewWithZap(zap.New(core)), recorded
}

// With returns a logger based off the root logger and decorates it with
// the given context and arguments.
//
// If the context contains request ID and/or correlation ID information
// (recorded via WithRequest()), they will be added to every log message
// generated by the new logger.
//
// The arguments should be specified as a sequence of name, value pairs
// with names being strings.
func (l *logger) With(ctx context.Context, args ...interface{}) Logger {
	if ctx != nil {
		if id, ok := ctx.Value(requestIDKey).(string); ok {
			args = append(args, zap.String("request_id", id))
		}
		if id, ok := ctx.Value(correlationIDKey).(string); ok {
			args = append(args, zap.String("correlation_id", id))
		}
	}
	if len(args) > 0 {
		return &logger{l.SugaredLogger.With(args...)}
	}
	return l
}

// WithRequest returns a context which knows the request ID and correlation ID
// in the given request.
func WithRequest(ctx context.Context, req *http.Request) context.Context {
	id := req.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	if correlationID := req.Header.Get("X-Correlation-ID"); correlationID != "" {
		ctx = context.WithValue(ctx, correlationIDKey, correlationID)
	}
	return ctx
}

// RequestID returns the request ID stored by WithRequest, if any.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

func buildFields() []zapcore.Field {
	var gitRevision, goVersion string

	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		goVersion = buildInfo.GoVersion
		for _, v := range buildInfo.Settings {
			if v.Key == "vcs.revision" {
				gitRevision = v.Value
				break
			}
		}
	}

	return []zapcore.Field{
		zap.String("git_revision", gitRevision),
		zap.String("go_version", goVersion),
	}
}
