package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL bounds how long a session token is accepted.
const DefaultTokenTTL = 24 * time.Hour

// GenerateToken signs a session token whose subject is sessionID.
func GenerateToken(sessionID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID.String(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"iss": "counterparty-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// WithSession stores sessionID in ctx.
func WithSession(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext returns the session placed in ctx by the interceptor
// or the HTTP middleware.
func SessionFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionContextKey).(uuid.UUID)
	return id, ok
}
