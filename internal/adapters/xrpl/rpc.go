package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/ports/ledger"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
)

const maxErrorBody = 4 << 10

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// RPCError is an error reported by the node for a request it understood.
type RPCError struct {
	Method  string
	Code    string
	Message string
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Method, e.Code, e.Message)
}

// Unwrap maps node error codes onto the ledger port errors.
func (e *RPCError) Unwrap() error {
	switch e.Code {
	case "lgrNotFound", "ledgerNotFound":
		return ledger.ErrLedgerNotFound
	case "actNotFound":
		return ledger.ErrAccountNotFound
	}
	return apperrors.ErrLedger
}

// call posts a JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("rpc_method", method))

	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Ledger node request failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s request failed: %w", apperrors.ErrLedger, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn("Ledger node returned HTTP error", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s returned HTTP %d: %s", apperrors.ErrLedger, method, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var env rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", apperrors.ErrLedger, method, err)
	}
	if len(env.Result) == 0 {
		return fmt.Errorf("%w: %s response has no result", apperrors.ErrLedger, method)
	}

	var status rpcStatus
	if err := json.Unmarshal(env.Result, &status); err != nil {
		return fmt.Errorf("%w: failed to decode %s status: %w", apperrors.ErrLedger, method, err)
	}
	if status.Status == "error" || status.Error != "" {
		rpcErr := &RPCError{Method: method, Code: status.Error, Message: status.ErrorMessage}
		logger.Debug("Ledger node rejected request", slog.String("code", rpcErr.Code))
		return rpcErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %w", apperrors.ErrLedger, method, err)
	}
	return nil
}
