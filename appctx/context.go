package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyToken         = ContextKey("Token")
	ContextKeyAgentId       = ContextKey("AgentId")
	ContextKeyAgentName     = ContextKey("AgentName")
	ContextKeyCorrelationId = ContextKey("CorrelationId")

	// ContextKeyIsOps is true for operations-console users. Used for the
	// internal ops endpoints (invoice export, effect replay).
	ContextKeyIsOps = ContextKey("IsOps")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetInt(ctx context.Context, key ContextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
