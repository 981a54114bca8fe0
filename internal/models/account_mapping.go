package models

// AccountMapping links a bank account to a ledger wallet.
type AccountMapping struct {
	MappingID     string `db:"mapping_id"`
	LedgerID      string `db:"ledger_id"`
	BankAccount   string `db:"bank_account"`
	WalletAddress string `db:"wallet_address"`
	PartyID       string `db:"party_id"` // Nullable
	AuditFields
}
