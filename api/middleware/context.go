package middleware

import (
	"context"

	"github.com/tillpointhq/tillpoint-backend/pkg/auth"
)

type contextKey string

const (
	ctxRegisterID contextKey = "register_id"
	ctxClaims     contextKey = "claims"
)

func RegisterIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRegisterID).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromContext returns the authenticated cashier claims, nil when the
// request did not pass the auth middleware.
func ClaimsFromContext(ctx context.Context) *auth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*auth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

// WithClaims injects claims into the context, used by tests and the auth
// middleware.
func WithClaims(ctx context.Context, claims *auth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}

// WithRegisterID injects the register identifier for downstream handlers.
func WithRegisterID(ctx context.Context, registerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRegisterID, registerID)
}
