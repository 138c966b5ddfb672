package quotestore

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKey struct{}

// WithSessionID tags ctx so sinks can record which session submitted a batch.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func sessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(uuid.UUID)
	return id, ok
}
