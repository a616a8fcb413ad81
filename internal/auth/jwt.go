package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

// JWTManager issues and validates HS256 access tokens. The subject claim is
// the actor name recorded in audit columns; tokens carry no other identity.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// GenerateAccessToken creates a signed HS256 JWT with the actor name as
// subject.
func (m *JWTManager) GenerateAccessToken(actor string) (string, error) {
	if actor == "" {
		return "", fmt.Errorf("actor is empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   actor,
		Issuer:    m.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and verifies an access token and returns its
// subject. Every rejection wraps domain.ErrUnauthorized.
func (m *JWTManager) ValidateAccessToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("%w: token is empty", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return "", fmt.Errorf("%w: parse token: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: invalid claims", domain.ErrUnauthorized)
	}

	if claims.Issuer != m.issuer {
		return "", fmt.Errorf("%w: issuer %q, want %q", domain.ErrUnauthorized, claims.Issuer, m.issuer)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", domain.ErrUnauthorized)
	}

	return claims.Subject, nil
}
