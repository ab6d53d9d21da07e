package logging

import "context"

type contextKey string

// Context keys for common log fields.
const (
	RequestIDKey contextKey = "request_id"
	MessageIDKey contextKey = "message_id"
	ChannelKey   contextKey = "channel"
	OperationKey contextKey = "operation"
)

// contextFields lists the keys extracted into log records, in output order.
var contextFields = []contextKey{RequestIDKey, MessageIDKey, ChannelKey, OperationKey}

// WithRequestID adds an HTTP request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithMessageID adds a chat message ID to the context.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, MessageIDKey, id)
}

// GetMessageID retrieves the chat message ID from the context.
func GetMessageID(ctx context.Context) string {
	return stringValue(ctx, MessageIDKey)
}

// WithChannel adds a chat channel name to the context.
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, ChannelKey, channel)
}

// GetChannel retrieves the chat channel from the context.
func GetChannel(ctx context.Context) string {
	return stringValue(ctx, ChannelKey)
}

// WithOperation adds a generation operation name to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, OperationKey, op)
}

// GetOperation retrieves the operation name from the context.
func GetOperation(ctx context.Context) string {
	return stringValue(ctx, OperationKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// extractContextFields returns key/value pairs for every field set in ctx.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range contextFields {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
