package httpapi

import (
	"context"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
)

type contextKey int

const (
	principalKey contextKey = iota
	requestMetaKey
)

const (
	callerAnonymous = "anonymous"
	callerUser      = "user"
	callerJob       = "job"
)

// requestMeta is installed by RequestLogging and filled in by the auth middlewares
// further down the chain, so the access log can say who called.
type requestMeta struct {
	caller string
	userID string
}

func withRequestMeta(ctx context.Context) (context.Context, *requestMeta) {
	meta := &requestMeta{caller: callerAnonymous}
	return context.WithValue(ctx, requestMetaKey, meta), meta
}

func markCaller(ctx context.Context, caller, userID string) {
	if meta, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		meta.caller = caller
		meta.userID = userID
	}
}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	markCaller(ctx, callerUser, p.UserID)
	return context.WithValue(ctx, principalKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey).(user.Principal)
	return p, ok
}
