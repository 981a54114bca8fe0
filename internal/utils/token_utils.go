package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSubject is returned for tokens that do not name an operator.
var ErrMissingSubject = errors.New("token has no subject")

// GenerateJWT signs an HS256 access token for subject and returns it with its expiry.
func GenerateJWT(subject, secret string, expiry time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT checks signature, expiry and subject of an access token.
// Errors from the jwt package are returned unchanged so callers can match
// jwt.ErrTokenExpired and friends.
func ParseAndValidateJWT(tokenString, secret string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
