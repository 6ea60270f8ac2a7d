// Package auth issues the short-lived per-user credentials the memory
// provider attaches to every authenticated request, and resolves user
// identities when the caller did not supply an email.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUserNotFound is returned by Resolver implementations when the user id
// does not map to a known identity. Callers rely on distinguishing this from
// network or API failures, so implementations must wrap it with %w.
var ErrUserNotFound = errors.New("user not found")

// TokenIssuer mints a bearer token for a resolved user identity.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// Resolver maps a user id to the email address registered for it.
type Resolver interface {
	Email(ctx context.Context, userID string) (string, error)
}

// JWTIssuer signs HMAC-SHA256 tokens compatible with the backend's
// fastapi-users style claims.
type JWTIssuer struct {
	secret   []byte
	audience string
	ttl      time.Duration
}

// NewJWTIssuer constructs an issuer. ttl bounds token validity; zero falls
// back to one hour.
func NewJWTIssuer(secret string, audience string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), audience: audience, ttl: ttl}, nil
}

// Issue returns a signed token whose subject is the user id and which carries
// the email claim.
func (i *JWTIssuer) Issue(userID, email string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("userId is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}
	if i.audience != "" {
		claims["aud"] = i.audience
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, userID string) (string, error)

// Email implements Resolver.
func (f ResolverFunc) Email(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}
