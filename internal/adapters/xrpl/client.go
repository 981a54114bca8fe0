// Package xrpl implements the ledger port against the JSON-RPC API of an XRP
// Ledger node (rippled or clio).
package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultPageSize = 200
)

// Client talks to one node. It is safe for concurrent use.
type Client struct {
	url      string
	http     *http.Client
	ledger   domain.Ledger
	pageSize int
	validate *validator.Validate
}

var _ ledger.Client = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPageSize sets the number of transactions requested per account_tx page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		http:     &http.Client{Timeout: defaultTimeout},
		ledger:   domain.XRPL,
		pageSize: defaultPageSize,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Ledger() domain.Ledger {
	return c.ledger
}

// ledgerIndex accepts both the string and the numeric form nodes use for
// ledger indices.
type ledgerIndex uint32

func (l *ledgerIndex) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*l = 0
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid ledger index %s: %w", data, err)
	}
	*l = ledgerIndex(v)
	return nil
}

func (c *Client) AccountSequence(ctx context.Context, address string) (uint32, error) {
	var res struct {
		AccountData struct {
			Sequence uint32 `json:"Sequence"`
		} `json:"account_data"`
	}
	params := map[string]any{"account": address, "ledger_index": "validated"}
	if err := c.call(ctx, "account_info", params, &res); err != nil {
		return 0, err
	}
	return res.AccountData.Sequence, nil
}

func (c *Client) LatestValidatedIndex(ctx context.Context) (uint32, error) {
	var res struct {
		LedgerIndex ledgerIndex `json:"ledger_index"`
		Validated   bool        `json:"validated"`
	}
	if err := c.call(ctx, "ledger", map[string]any{"ledger_index": "validated"}, &res); err != nil {
		return 0, err
	}
	if !res.Validated || res.LedgerIndex == 0 {
		return 0, fmt.Errorf("%w: node has no validated ledger", apperrors.ErrLedger)
	}
	return uint32(res.LedgerIndex), nil
}

// LedgerAt only reports validated ledgers. Open or closed but unvalidated
// ledgers have no final close time and are treated as not found.
func (c *Client) LedgerAt(ctx context.Context, index uint32) (domain.LedgerHeader, error) {
	var res struct {
		Ledger struct {
			LedgerIndex ledgerIndex `json:"ledger_index"`
			CloseTime   int64       `json:"close_time"`
			Closed      bool        `json:"closed"`
		} `json:"ledger"`
		Validated bool `json:"validated"`
	}
	if err := c.call(ctx, "ledger", map[string]any{"ledger_index": index}, &res); err != nil {
		return domain.LedgerHeader{}, err
	}
	if !res.Validated || !res.Ledger.Closed {
		return domain.LedgerHeader{}, fmt.Errorf("%w: ledger %d is not validated", ledger.ErrLedgerNotFound, index)
	}
	got := uint32(res.Ledger.LedgerIndex)
	if got == 0 {
		got = index
	}
	return domain.LedgerHeader{Index: got, CloseTime: fromRippleTime(res.Ledger.CloseTime)}, nil
}

func (c *Client) Fee(ctx context.Context) (ledger.FeeInfo, error) {
	var res struct {
		Drops struct {
			BaseFee       string `json:"base_fee"`
			OpenLedgerFee string `json:"open_ledger_fee"`
		} `json:"drops"`
	}
	if err := c.call(ctx, "fee", map[string]any{}, &res); err != nil {
		return ledger.FeeInfo{}, err
	}
	base, err := Amount{Drops: res.Drops.BaseFee}.toMoney(c.ledger)
	if err != nil {
		return ledger.FeeInfo{}, fmt.Errorf("%w: %w", apperrors.ErrLedger, err)
	}
	open, err := Amount{Drops: res.Drops.OpenLedgerFee}.toMoney(c.ledger)
	if err != nil {
		return ledger.FeeInfo{}, fmt.Errorf("%w: %w", apperrors.ErrLedger, err)
	}
	if open.Amount.LessThan(base.Amount) {
		open = base
	}
	return ledger.FeeInfo{Base: base, Open: open}, nil
}

// Sign has the node sign tx offline. The seed is sent along, so the node
// must be one the operator controls.
func (c *Client) Sign(ctx context.Context, tx ledger.UnsignedPayment, key ledger.PrivateKey) (ledger.SignedTransaction, error) {
	payment, err := buildPayment(c.ledger, tx, key)
	if err != nil {
		return ledger.SignedTransaction{}, err
	}
	if err := c.validate.Struct(payment); err != nil {
		return ledger.SignedTransaction{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	params := map[string]any{"tx_json": payment, "offline": true}
	if key.Algorithm == "" {
		params["secret"] = key.Seed
	} else {
		params["seed"] = key.Seed
		params["key_type"] = string(key.Algorithm)
	}

	var res struct {
		TxBlob string `json:"tx_blob"`
		TxJSON struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := c.call(ctx, "sign", params, &res); err != nil {
		return ledger.SignedTransaction{}, err
	}
	if res.TxBlob == "" {
		return ledger.SignedTransaction{}, fmt.Errorf("%w: sign returned no blob", apperrors.ErrLedger)
	}
	return ledger.SignedTransaction{Blob: res.TxBlob, Hash: res.TxJSON.Hash}, nil
}

func (c *Client) Submit(ctx context.Context, tx ledger.SignedTransaction) (ledger.SubmitResult, error) {
	var res struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
		TxJSON              struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := c.call(ctx, "submit", map[string]any{"tx_blob": tx.Blob}, &res); err != nil {
		return ledger.SubmitResult{}, err
	}
	hash := res.TxJSON.Hash
	if hash == "" {
		hash = tx.Hash
	}
	return ledger.SubmitResult{Code: res.EngineResult, Message: res.EngineResultMessage, Hash: hash}, nil
}

// AccountTransactions returns validated transactions of address within r,
// oldest first. The marker is the node's opaque marker as JSON text.
func (c *Client) AccountTransactions(ctx context.Context, address string, r domain.LedgerRange, marker string) (ledger.TransactionPage, error) {
	params := map[string]any{
		"account":          address,
		"ledger_index_min": r.Start.Index,
		"ledger_index_max": r.End.Index,
		"forward":          true,
		"limit":            c.pageSize,
	}
	if marker != "" {
		if !json.Valid([]byte(marker)) {
			return ledger.TransactionPage{}, fmt.Errorf("%w: invalid marker", apperrors.ErrValidation)
		}
		params["marker"] = json.RawMessage(marker)
	}

	var res struct {
		Transactions []accountTxEntry `json:"transactions"`
		Marker       json.RawMessage  `json:"marker"`
	}
	if err := c.call(ctx, "account_tx", params, &res); err != nil {
		return ledger.TransactionPage{}, err
	}

	page := ledger.TransactionPage{Transactions: make([]*domain.Transaction, 0, len(res.Transactions))}
	for _, entry := range res.Transactions {
		tx, ok, err := decodeTransaction(c.ledger, entry)
		if err != nil {
			return ledger.TransactionPage{}, fmt.Errorf("%w: %w", apperrors.ErrLedger, err)
		}
		if ok {
			page.Transactions = append(page.Transactions, tx)
		}
	}
	if m := bytes.TrimSpace(res.Marker); len(m) > 0 && !bytes.Equal(m, []byte("null")) {
		page.Marker = string(m)
	}
	return page, nil
}

// feeOrZero parses a fee in drops, treating garbage as zero.
func feeOrZero(l domain.Ledger, drops string) domain.Money {
	m, err := Amount{Drops: drops}.toMoney(l)
	if err != nil {
		return domain.NewMoney(decimal.Zero, l.Native())
	}
	return m
}
