// Package auth validates the bearer tokens minted by the identity gateway.
// Issuance lives upstream; this side only needs the subject and role claims.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/go-store-orders/internal/authz"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for userID with the given role. Used by tooling and
// tests; production tokens come from the gateway with the same secret.
func (s *TokenService) Issue(userID string, role authz.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses and verifies a token, returning its subject and role.
func (s *TokenService) Validate(token string) (userID string, role authz.Role, err error) {
	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	r, ok := authz.ParseRole(claims.Role)
	if !ok {
		return "", "", fmt.Errorf("unknown role %q in token", claims.Role)
	}
	return claims.Subject, r, nil
}
