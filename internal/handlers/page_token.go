package handlers

import (
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/utils/pagination"
)

var errInvalidPageToken = fmt.Errorf("%w: invalid page_token", apperrors.ErrValidation)

// encodePageToken returns an empty token when there is nothing left to page.
func encodePageToken(period domain.Period, marker string) string {
	if marker == "" {
		return ""
	}
	return pagination.EncodeHistoryToken(pagination.HistoryToken{From: period.From, To: period.To, Marker: marker})
}

func decodePageToken(token string) (domain.Period, string, error) {
	t, err := pagination.DecodeHistoryToken(token)
	if err != nil || t.To.Before(t.From) {
		return domain.Period{}, "", errInvalidPageToken
	}
	return domain.Period{From: t.From.UTC(), To: t.To.UTC()}, t.Marker, nil
}
