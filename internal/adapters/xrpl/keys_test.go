package xrpl

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		seed      string
		algorithm ledger.KeyAlgorithm
		publicKey string
		address   string
	}{
		{
			name:      "secp256k1 genesis seed",
			seed:      "snoPBrXtMeMyMHUVTgbuqAfg1SUTb",
			algorithm: ledger.KeySecp256k1,
			publicKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020",
			address:   "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
		},
		{
			name:      "ed25519 seed",
			seed:      "sEdSKaCy2JT7JaM7v95H9SxkhP9wS2r",
			algorithm: ledger.KeyEd25519,
			publicKey: "ED01FA53FA5A7E77798F882ECE20B1ABC00BB358A9E55A202D0D0676BD0CE37A63",
			address:   "rLUEXYuLiQptky37CqLcm9USQpPiz5rkpD",
		},
		{
			name:      "secp256k1 seed with surrounding spaces",
			seed:      " sp5fghtJtpUorTwvof1NpDXAzNwf5 ",
			algorithm: ledger.KeySecp256k1,
			publicKey: "030D58EB48B4420B1F7B9DF55087E0E29FEF0E8468F9A6825B01CA2C361042D435",
			address:   "rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewKeyResolver().Resolve(tt.seed)

			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.seed), key.Seed)
			assert.Equal(t, tt.algorithm, key.Algorithm)
			assert.Equal(t, tt.publicKey, strings.ToUpper(hex.EncodeToString(key.PublicKey)))
			assert.Equal(t, tt.address, key.Address)
			assert.True(t, IsValidAddress(key.Address))
		})
	}
}

func TestKeyResolver_ResolveInvalid(t *testing.T) {
	for _, seed := range []string{
		"",
		"not a seed",
		"snoPBrXtMeMyMHUVTgbuqAfg1SUTc", // checksum
		"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	} {
		t.Run(seed, func(t *testing.T) {
			_, err := NewKeyResolver().Resolve(seed)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeed)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"))
	assert.True(t, IsValidAddress("rrrrrrrrrrrrrrrrrrrrrhoLvTp"))
	assert.False(t, IsValidAddress("rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTH"))
	assert.False(t, IsValidAddress("snoPBrXtMeMyMHUVTgbuqAfg1SUTb"))
	assert.False(t, IsValidAddress("0x1234"))
	assert.False(t, IsValidAddress(""))
}
