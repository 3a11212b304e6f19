package logger

import (
	"context"
)

// Logger is the logging abstraction every service depends on. The zap
// implementation lives in zap.go; NewNop discards everything.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// WithContext returns a logger carrying the fields attached to ctx.
	WithContext(ctx context.Context) Logger

	// WithFields returns a logger with the extra fields attached.
	WithFields(fields ...Field) Logger

	// Sync flushes any buffered log entries
	Sync() error
}

// Field is a single key/value pair on a log entry.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type ctxKey struct{}

// NewContext attaches fields to ctx so that WithContext can pick them up
// further down the call chain, e.g. the resource URL being processed.
func NewContext(ctx context.Context, fields ...Field) context.Context {
	existing := FromContext(ctx)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// FromContext returns the fields attached with NewContext.
func FromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	return fields
}

type nopLogger struct{}

// NewNop returns a Logger that drops every entry.
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field)               {}
func (nopLogger) Info(string, ...Field)                {}
func (nopLogger) Warn(string, ...Field)                {}
func (nopLogger) Error(string, ...Field)               {}
func (nopLogger) Fatal(string, ...Field)               {}
func (n nopLogger) WithContext(context.Context) Logger { return n }
func (n nopLogger) WithFields(...Field) Logger         { return n }
func (nopLogger) Sync() error                          { return nil }
