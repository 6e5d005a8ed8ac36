package utils

import (
	"context"

	"bitbucket.org/voltride/fieldops_backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyAgentId       = appctx.ContextKeyAgentId
	ContextKeyAgentName     = appctx.ContextKeyAgentName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyIsOps         = appctx.ContextKeyIsOps
)

func GetAgentIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyAgentId)
}

func GetAgentNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAgentName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetAgentIdInContext(ctx context.Context, agentId int) context.Context {
	return appctx.Set(ctx, ContextKeyAgentId, agentId)
}

func SetAgentNameInContext(ctx context.Context, name string) context.Context {
	return appctx.Set(ctx, ContextKeyAgentName, name)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetIsOpsInContext(ctx context.Context, isOps bool) context.Context {
	return appctx.Set(ctx, ContextKeyIsOps, isOps)
}
