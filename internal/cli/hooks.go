package cli

import (
	"context"
	"time"
)

// logHooks reports HTTP and pipeline events at debug level through the
// logger attached to the request context.
type logHooks struct{}

func (logHooks) OnRequest(ctx context.Context, method, host, path string) {
	loggerFromContext(ctx).Debug("request", "method", method, "host", host, "path", path)
}

func (logHooks) OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration) {
	loggerFromContext(ctx).Debug("response",
		"method", method,
		"path", path,
		"status", statusCode,
		"duration", duration.Round(time.Millisecond))
}

func (logHooks) OnError(ctx context.Context, method, host, path string, err error) {
	loggerFromContext(ctx).Debug("request failed", "method", method, "host", host, "path", path, "error", err)
}

func (logHooks) OnStageStart(ctx context.Context, stage, pkg string) {
	loggerFromContext(ctx).Debug("stage started", "stage", stage)
}

func (logHooks) OnStageComplete(ctx context.Context, stage, pkg string, count int, duration time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("stage degraded", "stage", stage, "duration", duration.Round(time.Millisecond), "error", err)
		return
	}
	l.Debug("stage done", "stage", stage, "count", count, "duration", duration.Round(time.Millisecond))
}
