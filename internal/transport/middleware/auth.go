package middleware

import (
	"net/http"
	"strings"

	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

const bearerPrefix = "Bearer "

type tokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// Auth resolves the acting principal recorded in audit columns. A valid
// bearer token sets the actor to the token subject; no token at all lets the
// request proceed anonymously, audited as the system actor. Only a
// present-but-invalid token is rejected.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r) // Anonymous
				return
			}

			actor, err := validator.ValidateAccessToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithActor(r.Context(), actor)))
		})
	}
}
