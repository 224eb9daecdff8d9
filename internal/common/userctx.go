package common

import (
	"context"
	"strings"
)

// CallerContext identifies the authenticated account making a request.
// It is populated by the bearer-token middleware from validated JWT claims.
type CallerContext struct {
	Email string
	Admin bool
}

type contextKey int

const callerContextKey contextKey = iota

// WithCallerContext stores a CallerContext in the request context.
func WithCallerContext(ctx context.Context, cc *CallerContext) context.Context {
	return context.WithValue(ctx, callerContextKey, cc)
}

// CallerFromContext retrieves the CallerContext from context, or nil if absent.
func CallerFromContext(ctx context.Context) *CallerContext {
	cc, _ := ctx.Value(callerContextKey).(*CallerContext)
	return cc
}

// ResolveCallerEmail returns the authenticated email from context, or empty string.
func ResolveCallerEmail(ctx context.Context) string {
	if cc := CallerFromContext(ctx); cc != nil {
		return strings.ToLower(cc.Email)
	}
	return ""
}

// IsAdminCaller reports whether the request carries admin identity.
func IsAdminCaller(ctx context.Context) bool {
	cc := CallerFromContext(ctx)
	return cc != nil && cc.Admin
}
