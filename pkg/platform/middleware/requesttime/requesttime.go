// Package requesttime pins a single "now" per HTTP request so every timestamp
// written while serving it agrees.
package requesttime

import (
	"net/http"
	"time"

	"isdialogmote/pkg/requestcontext"
)

// Middleware stores the request start time in the context. A time already
// present (tests, upstream middleware) is kept.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := ctx.Value(requestcontext.ContextKeyRequestTime).(time.Time); !ok {
			ctx = requestcontext.WithTime(ctx, time.Now())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
