package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// HistoryToken carries the position of a paged ledger history query. The
// period is part of the token so that a follow-up page cannot be requested
// for a different time window.
type HistoryToken struct {
	From   time.Time
	To     time.Time
	Marker string // Opaque resume marker of the ledger node
}

// EncodeHistoryToken creates an URL safe token from t.
func EncodeHistoryToken(t HistoryToken) string {
	tokenStr := strings.Join([]string{t.From.Format(timeFormat), t.To.Format(timeFormat), t.Marker}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeHistoryToken parses a token created by EncodeHistoryToken.
func DecodeHistoryToken(token string) (HistoryToken, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return HistoryToken{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return HistoryToken{}, fmt.Errorf("invalid pagination token format (split)")
	}

	from, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return HistoryToken{}, fmt.Errorf("invalid pagination token format (from parse): %w", err)
	}
	to, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return HistoryToken{}, fmt.Errorf("invalid pagination token format (to parse): %w", err)
	}
	if parts[2] == "" {
		return HistoryToken{}, fmt.Errorf("invalid pagination token format (empty marker)")
	}

	return HistoryToken{From: from, To: to, Marker: parts[2]}, nil
}
