// Package token issues and validates the wallet session tokens used by the
// HTTP API.
package token

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token: invalid or expired")

type sessionClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, errors.New("token: missing JWT_SECRET")
}

// Create signs a 24h session token for a wallet address.
func Create(address string) (string, error) {
	sec, err := secret()
	if err != nil {
		return "", err
	}
	claims := sessionClaims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sec)
}

// Validate checks a session token and returns the wallet address it was
// issued for.
func Validate(tokenStr string) (string, error) {
	sec, err := secret()
	if err != nil {
		return "", err
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sec, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Address == "" {
		return "", ErrInvalidToken
	}
	return claims.Address, nil
}
