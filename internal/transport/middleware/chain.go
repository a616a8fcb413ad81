package middleware

import "net/http"

// Middleware decorates an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain folds a list of middleware onto a handler. The first middleware
// listed runs outermost: Chain(a, b)(h) serves a(b(h)).
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
