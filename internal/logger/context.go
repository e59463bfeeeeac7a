package logger

import "context"

type contextKey string

const TraceIDKey contextKey = "trace_id"
const TranscriptIDKey contextKey = "transcript_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}

func WithTranscriptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TranscriptIDKey, id)
}

func GetTranscriptID(ctx context.Context) string {
	if id, ok := ctx.Value(TranscriptIDKey).(string); ok {
		return id
	}
	return ""
}
