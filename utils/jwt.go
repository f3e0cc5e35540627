package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// staticClaims carries the external subject inside a locally signed token.
// Static mode stands in for the hosted identity provider in development and
// tests; the subject claim plays the same role as a Firebase UID.
type staticClaims struct {
	Subject string `json:"sub_id"`
	jwt.RegisteredClaims
}

// StaticVerifier validates HS256 tokens minted by MintStaticToken.
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier creates a verifier for the given shared secret.
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and returns the subject claim.
func (v *StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &staticClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*staticClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// MintStaticToken issues an HS256 token carrying the given subject. Only
// meaningful in static identity mode.
func MintStaticToken(secret, subject string, duration time.Duration) (string, error) {
	claims := staticClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
