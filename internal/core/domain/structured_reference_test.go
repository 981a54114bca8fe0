package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectReferenceType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.ReferenceType
	}{
		{name: "scor compact", raw: "RF18539007547034", want: domain.ReferenceScor},
		{name: "scor with blanks", raw: "RF18 5390 0754 7034", want: domain.ReferenceScor},
		{name: "qr reference", raw: "21 00000 00003 13947 14300 09017", want: domain.ReferenceSwissQrBill},
		{name: "26 digits", raw: "21000000000313947143000901", want: domain.ReferenceUnknown},
		{name: "free text", raw: "Invoice 4711", want: domain.ReferenceUnknown},
		{name: "empty", raw: "", want: domain.ReferenceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DetectReferenceType(tt.raw))
		})
	}
}

func TestParseReferenceType(t *testing.T) {
	assert.Equal(t, domain.ReferenceScor, domain.ParseReferenceType("Scor"))
	assert.Equal(t, domain.ReferenceScor, domain.ParseReferenceType("scor"))
	assert.Equal(t, domain.ReferenceSwissQrBill, domain.ParseReferenceType("SwissQrBill"))
	assert.Equal(t, domain.ReferenceUnknown, domain.ParseReferenceType("Isr"))
}

func TestStructuredReference_Normalizes(t *testing.T) {
	ref := domain.NewStructuredReference(domain.ReferenceScor, " RF18 5390\t0754 7034 ")
	assert.Equal(t, "RF18539007547034", ref.Value())
	assert.Equal(t, domain.ReferenceScor, ref.Type())
	assert.Equal(t, "SCOR", ref.Type().Prtry())
	assert.Equal(t, "QRR", domain.ReferenceSwissQrBill.Prtry())
	assert.Empty(t, domain.ReferenceUnknown.Prtry())

	detected := domain.DetectStructuredReference("210000000003139471430009017")
	assert.Equal(t, domain.ReferenceSwissQrBill, detected.Type())
}
