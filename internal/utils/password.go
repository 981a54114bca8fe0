package utils

import (
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest operator password accepted for hashing.
const MinPasswordLength = 12

// HashPassword produces the bcrypt value expected in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password needs at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed hash never matches.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
