package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	jobKey
)

// WithRequestID tags ctx with the id of the inbound request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithJob tags ctx with the job identifier (IID).
func WithJob(ctx context.Context, iid string) context.Context {
	return context.WithValue(ctx, jobKey, iid)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if iid, ok := ctx.Value(jobKey).(string); ok && iid != "" {
		attrs = append(attrs, slog.String("iid", iid))
	}
	return attrs
}
