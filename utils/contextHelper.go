package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/dashboard_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyRole          = appctx.ContextKeyRole
	ContextKeySessionId     = appctx.ContextKeySessionId
	ContextKeyScreen        = appctx.ContextKeyScreen
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRole)
}

func SetRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyRole, role)
}

func GetSessionIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeySessionId)
}

func SetSessionIdInContext(ctx context.Context, sessionId string) context.Context {
	return appctx.Set(ctx, ContextKeySessionId, sessionId)
}

func GetScreenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyScreen)
}

func SetScreenInContext(ctx context.Context, screen string) context.Context {
	return appctx.Set(ctx, ContextKeyScreen, screen)
}
