package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, utils.CheckPasswordHash("correct horse battery", hash))
	assert.False(t, utils.CheckPasswordHash("correct horse", hash))
	assert.False(t, utils.CheckPasswordHash("correct horse battery", "not-a-hash"))

	_, err = utils.HashPassword("short")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestJWTRoundTrip(t *testing.T) {
	token, expiresAt, err := utils.GenerateJWT("operator", "secret", time.Hour, "ledger-bridge")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "ledger-bridge", claims.Issuer)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	expired, _, err := utils.GenerateJWT("operator", "secret", -time.Minute, "ledger-bridge")
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	anonymous, _, err := utils.GenerateJWT("", "secret", time.Hour, "ledger-bridge")
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(anonymous, "secret")
	assert.ErrorIs(t, err, utils.ErrMissingSubject)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "operator"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(none, "secret")
	assert.Error(t, err)
}
