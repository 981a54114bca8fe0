package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHistoryToken(t *testing.T) {
	in := HistoryToken{
		From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 5, 31, 23, 59, 59, 123456789, time.UTC),
		Marker: `{"ledger":87654321,"seq":12}`,
	}

	token := EncodeHistoryToken(in)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "/", "Token should be URL safe")
	assert.NotContains(t, token, "+", "Token should be URL safe")

	out, err := DecodeHistoryToken(token)
	require.NoError(t, err)
	assert.True(t, in.From.Equal(out.From))
	assert.True(t, in.To.Equal(out.To))
	assert.Equal(t, in.Marker, out.Marker)
}

func TestDecodeHistoryTokenMarkerWithSeparator(t *testing.T) {
	in := HistoryToken{From: time.Unix(0, 0).UTC(), To: time.Unix(60, 0).UTC(), Marker: "a|b"}

	out, err := DecodeHistoryToken(EncodeHistoryToken(in))

	require.NoError(t, err)
	assert.Equal(t, "a|b", out.Marker)
}

func TestDecodeHistoryTokenError(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name     string
		token    string
		contains string
	}{
		{"invalid base64", "this is not base64!", "base64 decode"},
		{"missing separator", enc("2024-05-01T00:00:00Z"), "split"},
		{"invalid from", enc("notadate|2024-05-01T00:00:00Z|m"), "from parse"},
		{"invalid to", enc("2024-05-01T00:00:00Z|notadate|m"), "to parse"},
		{"empty marker", enc("2024-05-01T00:00:00Z|2024-05-02T00:00:00Z|"), "empty marker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHistoryToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
