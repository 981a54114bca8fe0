// Package memo encodes structured remittance data into the memo field of a
// ledger transaction and decodes it back.
//
// The payload is a small versioned JSON document:
//
//	{"v":1,"CdOrPrtry":[{"t":"Scor","v":"RF18539007547034"}],"ft":["thanks"]}
//
// Memos written by other applications are usually plain text. Decode never
// fails on them; it reports how the memo was interpreted instead.
package memo

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Version is the payload version written by Encode.
const Version = 1

// ErrNilInput is returned by Encode when references or free texts are nil.
var ErrNilInput = fmt.Errorf("%w: memo references and free texts must not be nil", apperrors.ErrValidation)

// Status tells how Decode interpreted a memo.
type Status string

const (
	// StatusDecoded is a payload of the supported version.
	StatusDecoded Status = "DECODED"
	// StatusUnsupported is a payload of another version. It carries no data.
	StatusUnsupported Status = "UNSUPPORTED"
	// StatusUnversioned is a JSON object without version; the raw memo is kept as free text.
	StatusUnversioned Status = "UNVERSIONED"
	// StatusMalformed is anything else; the raw memo is kept as free text.
	StatusMalformed Status = "MALFORMED"
)

// Result is the outcome of Decode.
type Result struct {
	Status     Status
	References []domain.StructuredReference
	FreeText   []string
}

// HasData reports whether the result carries references or free texts.
func (r Result) HasData() bool {
	return len(r.References) > 0 || len(r.FreeText) > 0
}

type reference struct {
	T string `json:"t"`
	V string `json:"v"`
}

// wireReference is the decoding side of reference. Both fields are required.
type wireReference struct {
	T *string `json:"t"`
	V *string `json:"v"`
}

type payload struct {
	V         int         `json:"v"`
	CdOrPrtry []reference `json:"CdOrPrtry"`
	Ft        []string    `json:"ft"`
}

// IsEmpty reports whether a memo would carry nothing.
func IsEmpty(refs []domain.StructuredReference, freeText []string) bool {
	return len(refs) == 0 && len(freeText) == 0
}

// Encode serializes refs and freeText. Both arrays are always written.
func Encode(refs []domain.StructuredReference, freeText []string) ([]byte, error) {
	if refs == nil || freeText == nil {
		return nil, ErrNilInput
	}

	p := payload{V: Version, CdOrPrtry: make([]reference, 0, len(refs)), Ft: freeText}
	for _, r := range refs {
		p.CdOrPrtry = append(p.CdOrPrtry, reference{T: string(r.Type()), V: r.Value()})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode memo: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode interprets raw memo data.
func Decode(raw []byte) Result {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return rawText(StatusMalformed, raw)
	}

	version, ok := fields["v"]
	if !ok {
		return rawText(StatusUnversioned, raw)
	}
	if !isVersion(version, Version) {
		return Result{Status: StatusUnsupported}
	}

	var p struct {
		CdOrPrtry []wireReference `json:"CdOrPrtry"`
		Ft        []string        `json:"ft"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return rawText(StatusMalformed, raw)
	}
	for _, r := range p.CdOrPrtry {
		if r.T == nil || r.V == nil {
			return rawText(StatusMalformed, raw)
		}
	}

	res := Result{
		Status:     StatusDecoded,
		References: make([]domain.StructuredReference, 0, len(p.CdOrPrtry)),
		FreeText:   make([]string, 0, len(p.Ft)),
	}
	for _, r := range p.CdOrPrtry {
		res.References = append(res.References, domain.NewStructuredReference(domain.ParseReferenceType(*r.T), *r.V))
	}
	res.FreeText = append(res.FreeText, p.Ft...)
	return res
}

// isVersion accepts any numeric spelling of want, e.g. 1, 1.0 or "1".
func isVersion(raw json.RawMessage, want int64) bool {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return false
	}
	return d.Equal(decimal.NewFromInt(want))
}

func rawText(status Status, raw []byte) Result {
	res := Result{Status: status, References: []domain.StructuredReference{}, FreeText: []string{}}
	if len(raw) > 0 {
		res.FreeText = append(res.FreeText, string(raw))
	}
	return res
}
