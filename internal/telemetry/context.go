package telemetry

import "context"

// turnIDKey is the context key type used to store a turn ID.
type turnIDKey struct{}

// WithTurnID returns a child context carrying the given turn ID. Every
// event emitted under that context is stamped with it, so one turn's model
// call, tool executions, and append line up in the journal.
func WithTurnID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnIDKey{}, id)
}

// TurnIDFromContext returns the turn ID from ctx, if present.
// Returns "", false if the value is missing or not a non-empty string.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(turnIDKey{})
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
