package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
)

// ErrLedgerNotFound is returned by LedgerAt when the node does not know the index,
// e.g. because it was pruned or is not validated yet.
var ErrLedgerNotFound = fmt.Errorf("%w: ledger not found", apperrors.ErrNotFound)

// ErrAccountNotFound is returned for addresses that are not funded on the ledger.
var ErrAccountNotFound = fmt.Errorf("%w: account not found", apperrors.ErrNotFound)

// SuccessCode is the result code of an accepted submission.
const SuccessCode = "tesSUCCESS"

// KeyAlgorithm is the signature scheme of a key.
type KeyAlgorithm string

const (
	KeyEd25519   KeyAlgorithm = "ed25519"
	KeySecp256k1 KeyAlgorithm = "secp256k1"
)

// PrivateKey is a resolved signing credential.
type PrivateKey struct {
	Seed      string
	Algorithm KeyAlgorithm
	PublicKey []byte
	Address   string // Address derived from PublicKey
}

// UnsignedPayment is a payment ready to be signed.
type UnsignedPayment struct {
	Account            string
	Destination        string
	DestinationTag     *uint32
	Amount             domain.Money
	SendMax            *domain.Money
	Fee                domain.Money
	Sequence           uint32
	LastLedgerSequence uint32
	InvoiceID          string
	Memos              [][]byte
}

type SignedTransaction struct {
	Blob string
	Hash string
}

// SubmitResult is the engine result of a submission.
type SubmitResult struct {
	Code    string
	Message string
	Hash    string
}

func (r SubmitResult) Accepted() bool {
	return r.Code == SuccessCode
}

// FeeInfo holds the current transaction costs in the native currency.
type FeeInfo struct {
	Base domain.Money
	Open domain.Money
}

// TransactionPage is one page of account history. Marker is empty on the last page.
type TransactionPage struct {
	Transactions []*domain.Transaction
	Marker       string
}

// Client is the capability the bridge needs from a ledger node.
// There is one implementation per ledger family.
type Client interface {
	// Ledger describes the ledger family the client talks to.
	Ledger() domain.Ledger

	AccountSequence(ctx context.Context, address string) (uint32, error)
	LatestValidatedIndex(ctx context.Context) (uint32, error)
	// LedgerAt returns ErrLedgerNotFound for unknown indices.
	LedgerAt(ctx context.Context, index uint32) (domain.LedgerHeader, error)
	// AccountTransactions returns one page of transactions affecting address
	// within r. Pass the marker of the previous page to continue.
	AccountTransactions(ctx context.Context, address string, r domain.LedgerRange, marker string) (TransactionPage, error)
	Fee(ctx context.Context) (FeeInfo, error)
	Sign(ctx context.Context, tx UnsignedPayment, key PrivateKey) (SignedTransaction, error)
	Submit(ctx context.Context, tx SignedTransaction) (SubmitResult, error)
}

// KeyResolver turns a secret into a signing key.
type KeyResolver interface {
	Resolve(secret string) (PrivateKey, error)
}

// IsNotFound reports whether err means the requested ledger is unavailable.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLedgerNotFound)
}
