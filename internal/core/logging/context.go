package logging

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	imageKey     contextKey = "image"
)

// WithSessionID adds a result session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithImage adds the image key of the session to the context.
func WithImage(ctx context.Context, image string) context.Context {
	return context.WithValue(ctx, imageKey, image)
}

// GetSessionID retrieves the session ID from the context.
// Returns empty string if not present.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// GetImage retrieves the image key from the context.
// Returns empty string if not present.
func GetImage(ctx context.Context) string {
	if img, ok := ctx.Value(imageKey).(string); ok {
		return img
	}
	return ""
}
