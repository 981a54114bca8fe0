package domain

import "strings"

// BankAccount is an account on the banking side, usually an IBAN.
type BankAccount struct {
	Unformatted string `json:"unformatted"`
}

// NewBankAccount normalizes an account identifier by removing spaces and upper-casing it.
func NewBankAccount(raw string) BankAccount {
	return BankAccount{Unformatted: strings.ToUpper(stripSpaces(raw))}
}

func (a BankAccount) IsZero() bool {
	return a.Unformatted == ""
}

// Address is a postal address of a payment party.
type Address struct {
	Name        string `json:"name"`
	Street      string `json:"street,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// AccountMapping links a bank account to a wallet on a given ledger.
type AccountMapping struct {
	MappingID     string      `json:"mappingID"`
	LedgerID      LedgerID    `json:"ledgerID"`
	BankAccount   BankAccount `json:"bankAccount"`
	WalletAddress string      `json:"walletAddress"`
	PartyID       string      `json:"partyID"` // Optional owner hint, e.g. the creditor name
	AuditFields
}

// Wallet returns the mapped wallet.
func (m AccountMapping) Wallet() Wallet {
	return Wallet{Address: m.WalletAddress}
}
