package xrpl

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // account IDs are defined over RIPEMD-160
)

var alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

var (
	ErrInvalidSeed    = fmt.Errorf("%w: invalid family seed", apperrors.ErrValidation)
	ErrInvalidAddress = fmt.Errorf("%w: invalid classic address", apperrors.ErrValidation)
)

var (
	prefixAccountID = []byte{0x00}
	prefixSeedSecp  = []byte{0x21}
	prefixSeedEd    = []byte{0x01, 0xE1, 0x4B}
)

const (
	entropyLen     = 16
	accountIDLen   = 20
	edPublicPrefix = 0xED
	// Candidate scalars at or above the curve order are skipped. The chance of
	// needing more than a handful of attempts is negligible.
	maxScalarAttempts = 256
)

// KeyResolver derives signing keys from family seeds.
type KeyResolver struct{}

var _ ledger.KeyResolver = KeyResolver{}

func NewKeyResolver() KeyResolver {
	return KeyResolver{}
}

// Resolve decodes a base58 family seed and derives the master key pair and
// classic address. Both ed25519 ("sEd...") and secp256k1 seeds are accepted.
func (KeyResolver) Resolve(secret string) (ledger.PrivateKey, error) {
	secret = strings.TrimSpace(secret)
	algo, entropy, err := decodeSeed(secret)
	if err != nil {
		return ledger.PrivateKey{}, err
	}

	var pub []byte
	switch algo {
	case ledger.KeyEd25519:
		pub = deriveEd25519(entropy)
	default:
		pub, err = deriveSecp256k1(entropy)
		if err != nil {
			return ledger.PrivateKey{}, err
		}
	}

	return ledger.PrivateKey{
		Seed:      secret,
		Algorithm: algo,
		PublicKey: pub,
		Address:   AddressFromPublicKey(pub),
	}, nil
}

func decodeSeed(seed string) (ledger.KeyAlgorithm, []byte, error) {
	payload, err := decodeCheck(seed)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	switch {
	case len(payload) == len(prefixSeedEd)+entropyLen && bytes.HasPrefix(payload, prefixSeedEd):
		return ledger.KeyEd25519, payload[len(prefixSeedEd):], nil
	case len(payload) == len(prefixSeedSecp)+entropyLen && bytes.HasPrefix(payload, prefixSeedSecp):
		return ledger.KeySecp256k1, payload[len(prefixSeedSecp):], nil
	}
	return "", nil, ErrInvalidSeed
}

func deriveEd25519(entropy []byte) []byte {
	priv := ed25519.NewKeyFromSeed(sha512Half(entropy))
	return append([]byte{edPublicPrefix}, priv.Public().(ed25519.PublicKey)...)
}

// deriveSecp256k1 returns the compressed public key of the first account key
// pair: the root key tweaked by the account generator for sub-sequence 0.
func deriveSecp256k1(entropy []byte) ([]byte, error) {
	root, err := scalarFromSequence(func(seq []byte) []byte {
		return sha512Half(entropy, seq)
	})
	if err != nil {
		return nil, err
	}
	rootPub := secp256k1.NewPrivateKey(root).PubKey().SerializeCompressed()

	tweak, err := scalarFromSequence(func(seq []byte) []byte {
		return sha512Half(rootPub, uint32Bytes(0), seq)
	})
	if err != nil {
		return nil, err
	}

	account := new(secp256k1.ModNScalar).Set(root).Add(tweak)
	return secp256k1.NewPrivateKey(account).PubKey().SerializeCompressed(), nil
}

func scalarFromSequence(candidate func(seq []byte) []byte) (*secp256k1.ModNScalar, error) {
	for i := uint32(0); i < maxScalarAttempts; i++ {
		var s secp256k1.ModNScalar
		if overflow := s.SetByteSlice(candidate(uint32Bytes(i))); !overflow && !s.IsZero() {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: could not derive key from seed", ErrInvalidSeed)
}

// AddressFromPublicKey encodes the account ID of pub as classic address.
func AddressFromPublicKey(pub []byte) string {
	sha := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(sha[:])
	return encodeCheck(append(append([]byte{}, prefixAccountID...), h.Sum(nil)...))
}

// IsValidAddress reports whether addr is a well formed classic address.
func IsValidAddress(addr string) bool {
	payload, err := decodeCheck(addr)
	if err != nil {
		return false
	}
	return len(payload) == len(prefixAccountID)+accountIDLen && bytes.HasPrefix(payload, prefixAccountID)
}

func encodeCheck(payload []byte) string {
	buf := make([]byte, 0, len(payload)+4)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload)...)
	return base58.EncodeAlphabet(buf, alphabet)
}

func decodeCheck(s string) ([]byte, error) {
	raw, err := base58.DecodeAlphabet(s, alphabet)
	if err != nil {
		return nil, err
	}
	if len(raw) < 5 {
		return nil, fmt.Errorf("encoded value too short")
	}
	payload, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, fmt.Errorf("checksum mismatch")
	}
	return payload, nil
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

func sha512Half(parts ...[]byte) []byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)[:32]
}

func uint32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
