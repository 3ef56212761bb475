package logging

import "context"

// LogDataKey is the context key under which a request's LogData travels.
type LogDataKey struct{}

// WithLogData attaches a LogData to the context for handlers downstream.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, LogDataKey{}, logData)
}

// GetLogData returns the request's LogData, or nil when none was attached.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(LogDataKey{}).(*LogData)
	return logData
}
