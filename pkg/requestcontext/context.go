// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the values, services read them:
//
//	actor := requestcontext.NavIdent(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject a fixed clock with requestcontext.WithTime.
package requestcontext

import (
	"context"
	"time"

	id "isdialogmote/pkg/domain"
)

type (
	navIdentKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyNavIdent    = navIdentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// NavIdent returns the acting case officer, or the system ident when the call
// originates from a background job.
func NavIdent(ctx context.Context) id.NavIdent {
	if v, ok := ctx.Value(ContextKeyNavIdent).(id.NavIdent); ok && v != "" {
		return v
	}
	return id.SystemIdent
}

func WithNavIdent(ctx context.Context, ident id.NavIdent) context.Context {
	return context.WithValue(ctx, ContextKeyNavIdent, ident)
}

// RequestID returns the correlation id, or "" when not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now returns the request time if injected, otherwise the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins Now for the lifetime of ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
