package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// RequestIDHeader carries the request ID in and out of the service.
const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with an ID, reusing the incoming header when
// the caller already set one. The ID rides the context into logs and error
// responses and is echoed back in the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
