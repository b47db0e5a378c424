// Package token issues and verifies the signed identity tokens handed
// out by /auth/login.
package token

import (
	"errors"
	"time"

	"github.com/buslane/buslane/pkg/util"
	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid auth token")

func signingSecret() []byte {
	env := util.GetEnvironmentVariables()

	secret := env["BUSLANE_JWT_SECRET"]
	if secret == "" {
		secret = "dev_change_me"
	}

	return []byte(secret)
}

// Issue creates a signed token whose subject is the username.
func Issue(username string) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingSecret())
}

// Verify checks the signature and expiry and returns the subject.
func Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return signingSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
