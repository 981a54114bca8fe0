package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

// defaultHistoryWindow is the period listed when the request gives no start.
const defaultHistoryWindow = 7 * 24 * time.Hour

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
	now            func() time.Time
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps, now: time.Now}
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	rg.POST("/payments/submit", h.submitPayments)
	rg.GET("/wallets/:address/payments", h.listReceivedPayments)
}

// submitPayments godoc
// @Summary Submit outbound payments
// @Description Builds ledger transactions from the payments and submits them grouped by sender. Every payment gets its own result; a failing payment does not stop the others.
// @Tags payments
// @Accept json
// @Produce json
// @Param payments body dto.SubmitPaymentsRequest true "Payments to submit"
// @Success 200 {object} dto.SubmitPaymentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Ledger node unavailable"
// @Security BearerAuth
// @Router /payments/submit [post]
func (h *paymentHandler) submitPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	results := make([]dto.SubmitOutcomeResponse, len(req.Payments))
	payments := make([]*domain.Payment, 0, len(req.Payments))
	positions := make([]int, 0, len(req.Payments))
	for i, pr := range req.Payments {
		p, err := h.paymentService.BuildPayment(c.Request.Context(), pr)
		if err != nil {
			if statusFor(err) >= http.StatusInternalServerError {
				respondError(c, logger, err, "Failed to build payment")
				return
			}
			results[i] = dto.SubmitOutcomeResponse{
				EndToEndID: pr.EndToEndID,
				State:      string(domain.TransmissionError),
				Sender:     pr.SenderAddress,
				Error:      err.Error(),
			}
			continue
		}
		payments = append(payments, p)
		positions = append(positions, i)
	}

	if len(payments) > 0 {
		outcomes, err := h.paymentService.SubmitPayments(c.Request.Context(), payments)
		if err != nil {
			respondError(c, logger, err, "Failed to submit payments")
			return
		}
		for j, out := range outcomes {
			results[positions[j]] = toOutcomeResponse(payments[j], out)
		}
	}

	logger.Info("Payment batch processed", slog.Int("requested", len(req.Payments)), slog.Int("submitted", len(payments)))
	c.JSON(http.StatusOK, dto.SubmitPaymentsResponse{Results: results})
}

func toOutcomeResponse(p *domain.Payment, out domain.SubmitOutcome) dto.SubmitOutcomeResponse {
	tx := p.Transaction()
	res := dto.SubmitOutcomeResponse{
		EndToEndID:      p.EndToEndID,
		TransactionID:   tx.ID,
		State:           string(tx.State()),
		Sender:          tx.Sender.Address,
		Sequence:        out.Sequence,
		SequenceOffset:  out.SequenceOffset,
		ValidityCeiling: out.ValidityCeiling,
	}
	if out.Err != nil {
		res.Error = out.Err.Error()
		var rej *domain.LedgerRejectionError
		if errors.As(out.Err, &rej) {
			res.ErrorCode = rej.Code
		}
	}
	return res
}

type walletURI struct {
	Address string `uri:"address" binding:"required,xrpl_address"`
}

// listReceivedPayments godoc
// @Summary List received payments
// @Description Lists successful payments received by a wallet within a period, oldest first. A truncated listing returns a page token to continue.
// @Tags payments
// @Produce json
// @Param address path string true "Wallet address"
// @Param from query string false "Start of the period (RFC3339), defaults to seven days before to"
// @Param to query string false "End of the period (RFC3339), defaults to now"
// @Param page_token query string false "Token from a previous, truncated response"
// @Success 200 {object} dto.ReceivedPaymentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Ledger node unavailable"
// @Security BearerAuth
// @Router /wallets/{address}/payments [get]
func (h *paymentHandler) listReceivedPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var uri walletURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindError(c, logger, err)
		return
	}
	var params dto.ReceivedPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	period, marker, err := h.resolvePeriod(params)
	if err != nil {
		respondError(c, logger, err, "Invalid period")
		return
	}

	logger = logger.With(slog.String("wallet", uri.Address))
	result, err := h.paymentService.ListPaymentsReceived(c.Request.Context(), domain.Wallet{Address: uri.Address}, period, marker)
	if err != nil {
		respondError(c, logger, err, "Failed to list received payments")
		return
	}

	res := dto.ReceivedPaymentsResponse{
		Payments:         make([]dto.PaymentResponse, 0, len(result.Payments)),
		From:             result.Period.From,
		To:               result.Period.To,
		RangeUnavailable: result.RangeUnavailable,
		Truncated:        result.HasMaxPageCounterReached,
		NextPageToken:    encodePageToken(result.Period, result.NextMarker),
	}
	for _, p := range result.Payments {
		res.Payments = append(res.Payments, dto.ToPaymentResponse(p))
	}

	logger.Info("Received payments listed", slog.Int("count", len(res.Payments)), slog.Bool("truncated", res.Truncated))
	c.JSON(http.StatusOK, res)
}

// resolvePeriod applies defaults. A page token takes precedence over from and to.
func (h *paymentHandler) resolvePeriod(params dto.ReceivedPaymentsParams) (domain.Period, string, error) {
	if params.PageToken != "" {
		return decodePageToken(params.PageToken)
	}
	to := h.now().UTC()
	if params.To != nil {
		to = params.To.UTC()
	}
	from := to.Add(-defaultHistoryWindow)
	if params.From != nil {
		from = params.From.UTC()
	}
	if to.Before(from) {
		return domain.Period{}, "", apperrors.NewValidationError("from must not be after to")
	}
	return domain.Period{From: from, To: to}, "", nil
}
