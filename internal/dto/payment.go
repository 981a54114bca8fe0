package dto

import (
	"time"

	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountDTO is an amount in a currency. Issuer is set for ledger tokens.
type AmountDTO struct {
	Value       decimal.Decimal  `json:"value" binding:"required"`
	Currency    string           `json:"currency" binding:"required,min=3,max=40"`
	Issuer      string           `json:"issuer,omitempty" binding:"omitempty,xrpl_address"`
	TransferFee *decimal.Decimal `json:"transferFee,omitempty"` // Overrides the catalog value
}

// PaymentRequest describes one outbound payment. The receiver is given either
// as wallet address or as bank account with a stored mapping.
type PaymentRequest struct {
	EndToEndID          string          `json:"endToEndID,omitempty" binding:"omitempty,max=35"`
	SenderAddress       string          `json:"senderAddress" binding:"required,xrpl_address"`
	SenderSecret        string          `json:"senderSecret" binding:"required"`
	ReceiverAddress     string          `json:"receiverAddress,omitempty" binding:"required_without=ReceiverBankAccount,omitempty,xrpl_address"`
	ReceiverBankAccount string          `json:"receiverBankAccount,omitempty" binding:"required_without=ReceiverAddress,omitempty,max=64"`
	ReceiverName        string          `json:"receiverName,omitempty"`
	DestinationTag      *uint32         `json:"destinationTag,omitempty"`
	Amount              AmountDTO       `json:"amount" binding:"required"`
	References          []ReferenceDTO  `json:"references,omitempty" binding:"dive"`
	Messages            []string        `json:"messages,omitempty"`
	InvoiceID           string          `json:"invoiceID,omitempty" binding:"omitempty,hexadecimal,len=64"`
	Fee                 decimal.Decimal `json:"fee"` // Native fee; zero selects the open ledger fee
}

// SubmitPaymentsRequest is a batch of outbound payments.
type SubmitPaymentsRequest struct {
	Payments []PaymentRequest `json:"payments" binding:"required,min=1,max=100,dive"`
}

// SubmitOutcomeResponse reports the result of one payment of a batch.
type SubmitOutcomeResponse struct {
	EndToEndID      string `json:"endToEndID,omitempty"`
	TransactionID   string `json:"transactionID,omitempty"`
	State           string `json:"state"`
	Sender          string `json:"sender"`
	Sequence        uint32 `json:"sequence,omitempty"`
	SequenceOffset  uint32 `json:"sequenceOffset"`
	ValidityCeiling uint32 `json:"validityCeiling,omitempty"`
	Error           string `json:"error,omitempty"`
	ErrorCode       string `json:"errorCode,omitempty"` // Engine result code of a ledger rejection
}

// SubmitPaymentsResponse lists outcomes in request order.
type SubmitPaymentsResponse struct {
	Results []SubmitOutcomeResponse `json:"results"`
}

// ReceivedPaymentsParams are the query parameters of the history endpoint.
type ReceivedPaymentsParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	PageToken string     `form:"page_token"`
}

// PaymentResponse is a payment found on the ledger.
type PaymentResponse struct {
	TransactionID  string         `json:"transactionID"`
	Sender         string         `json:"sender"`
	Receiver       string         `json:"receiver"`
	SenderAccount  string         `json:"senderAccount,omitempty"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	Issuer         string         `json:"issuer,omitempty"`
	UserAmount     *string        `json:"userAmount,omitempty"`
	UserCurrency   string         `json:"userCurrency,omitempty"`
	DisplayText    string         `json:"displayText"`
	DestinationTag *uint32        `json:"destinationTag,omitempty"`
	InvoiceID      string         `json:"invoiceID,omitempty"`
	References     []ReferenceDTO `json:"references"`
	Messages       []string       `json:"messages"`
	Fee            string         `json:"fee,omitempty"`
	Booked         time.Time      `json:"booked"`
	Origin         string         `json:"origin"`
}

// ReceivedPaymentsResponse wraps a history page.
type ReceivedPaymentsResponse struct {
	Payments         []PaymentResponse `json:"payments"`
	From             time.Time         `json:"from"`
	To               time.Time         `json:"to"`
	RangeUnavailable bool              `json:"rangeUnavailable"`
	Truncated        bool              `json:"truncated"`
	NextPageToken    string            `json:"nextPageToken,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	tx := p.Transaction()
	res := PaymentResponse{
		TransactionID:  tx.ID,
		Sender:         tx.Sender.Address,
		Receiver:       tx.Receiver.Address,
		SenderAccount:  p.SenderAccount.Unformatted,
		Amount:         tx.Amount.Amount.String(),
		Currency:       tx.Amount.Currency.Code,
		Issuer:         tx.Amount.Currency.Issuer,
		DisplayText:    p.DisplayText(),
		DestinationTag: tx.DestinationTag,
		InvoiceID:      tx.InvoiceID,
		References:     ToReferenceDTOs(tx.References),
		Messages:       tx.Messages,
		Booked:         tx.Booked,
		Origin:         string(p.Origin),
	}
	if amt, ok := p.Amount(); ok {
		v := amt.Amount.String()
		res.UserAmount = &v
		res.UserCurrency = amt.Currency.Code
	}
	if fee, ok := tx.Fee(domain.FeeLedgerTransaction); ok {
		res.Fee = fee.Amount.String()
	}
	if res.Messages == nil {
		res.Messages = []string{}
	}
	return res
}
