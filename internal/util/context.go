package util

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	// CtxKeyAuthenticatedAccount holds the wallet account id proven by the
	// signature-auth middleware for the current request.
	CtxKeyAuthenticatedAccount contextKey = iota
	CtxKeyRequestID
)

// LogFromContext returns the request-scoped logger, or a disabled logger
// when none was injected.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// AccountIDFromContext returns the authenticated wallet account id set by
// the auth middleware.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(CtxKeyAuthenticatedAccount).(string)
	return accountID, ok && accountID != ""
}

func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, CtxKeyAuthenticatedAccount, accountID)
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(CtxKeyRequestID).(string)
	return requestID
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxKeyRequestID, requestID)
}
