package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// ReferenceType classifies a structured creditor reference.
type ReferenceType string

const (
	ReferenceUnknown     ReferenceType = "Unknown"
	ReferenceScor        ReferenceType = "Scor"
	ReferenceSwissQrBill ReferenceType = "SwissQrBill"
)

var (
	scorPattern    = regexp.MustCompile(`^RF[0-9]{2}[0-9A-Za-z]{1,21}$`)
	qrrefPattern   = regexp.MustCompile(`^[0-9]{27}$`)
	referenceTypes = []ReferenceType{ReferenceUnknown, ReferenceScor, ReferenceSwissQrBill}
)

// Prtry returns the ISO20022 proprietary code of the type.
func (t ReferenceType) Prtry() string {
	switch t {
	case ReferenceScor:
		return "SCOR"
	case ReferenceSwissQrBill:
		return "QRR"
	default:
		return ""
	}
}

// ParseReferenceType maps a wire name back to a type. Unknown names map to ReferenceUnknown.
func ParseReferenceType(name string) ReferenceType {
	for _, t := range referenceTypes {
		if strings.EqualFold(string(t), name) {
			return t
		}
	}
	return ReferenceUnknown
}

// DetectReferenceType guesses the type from the shape of raw.
func DetectReferenceType(raw string) ReferenceType {
	v := stripSpaces(raw)
	switch {
	case scorPattern.MatchString(v):
		return ReferenceScor
	case qrrefPattern.MatchString(v):
		return ReferenceSwissQrBill
	default:
		return ReferenceUnknown
	}
}

// StructuredReference is an immutable typed creditor reference.
type StructuredReference struct {
	typ   ReferenceType
	value string
}

// NewStructuredReference normalizes raw by removing all whitespace.
func NewStructuredReference(typ ReferenceType, raw string) StructuredReference {
	return StructuredReference{typ: typ, value: stripSpaces(raw)}
}

// DetectStructuredReference creates a reference with a detected type.
func DetectStructuredReference(raw string) StructuredReference {
	return NewStructuredReference(DetectReferenceType(raw), raw)
}

func (r StructuredReference) Type() ReferenceType { return r.typ }
func (r StructuredReference) Value() string       { return r.value }

func (r StructuredReference) String() string {
	return string(r.typ) + ":" + r.value
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
