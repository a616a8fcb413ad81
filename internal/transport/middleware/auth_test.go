package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

//go:generate moq -out token_validator_mock_test.go -pkg middleware . tokenValidator

func serveAuth(validator tokenValidator, header string) (*httptest.ResponseRecorder, string) {
	var actor string
	wrapped := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ctxutil.Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec, actor
}

func TestAuth_ValidTokenSetsActor(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (string, error) {
			if token != "valid-token" {
				t.Errorf("expected the bearer token forwarded, got %q", token)
			}
			return "alice@example.com", nil
		},
	}

	rec, actor := serveAuth(validator, "Bearer valid-token")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actor != "alice@example.com" {
		t.Errorf("expected the token subject as actor, got %q", actor)
	}
}

func TestAuth_InvalidTokenRejected(t *testing.T) {
	validator := &tokenValidatorMock{
		ValidateAccessTokenFunc: func(token string) (string, error) {
			return "", errors.New("bad signature")
		},
	}

	rec, actor := serveAuth(validator, "Bearer forged-token")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if actor != "" {
		t.Error("the handler must not run for a rejected token")
	}
}

func TestAuth_AnonymousWithoutBearer(t *testing.T) {
	// Requests with no credential at all, or with a non-bearer scheme,
	// proceed as the system actor without consulting the validator.
	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer glued to token", "Bearertoken"},
		{"bare scheme", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &tokenValidatorMock{
				ValidateAccessTokenFunc: func(token string) (string, error) {
					return "", errors.New("must not be called")
				},
			}

			rec, actor := serveAuth(validator, tt.header)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if actor != ctxutil.SystemActor {
				t.Errorf("expected the system actor, got %q", actor)
			}
			if calls := len(validator.ValidateAccessTokenCalls()); calls != 0 {
				t.Errorf("expected the validator untouched, got %d calls", calls)
			}
		})
	}
}
