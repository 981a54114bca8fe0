package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	l := rg.Group("/ledger")
	{
		l.GET("/at", h.ledgerAt)
		l.GET("/status", h.status)
	}
}

// ledgerAt godoc
// @Summary Ledger at a point in time
// @Description Returns the first ledger closed at or shortly after the given time.
// @Tags ledger
// @Produce json
// @Param time query string true "Point in time (RFC3339)"
// @Success 200 {object} dto.LedgerAtResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No ledger available near that time"
// @Failure 502 {object} ErrorResponse "Ledger node unavailable"
// @Security BearerAuth
// @Router /ledger/at [get]
func (h *ledgerHandler) ledgerAt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.LedgerAtParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	at, ok, err := h.ledgerService.IndexAt(c.Request.Context(), params.Time)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve ledger")
		return
	}
	if !ok {
		logger.Info("No ledger available near requested time", slog.Time("time", params.Time))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No ledger available near the requested time"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerAtResponse(at))
}

// status godoc
// @Summary Ledger status
// @Description Returns the latest validated ledger index and the current transaction fees.
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.LedgerStatusResponse
// @Failure 502 {object} ErrorResponse "Ledger node unavailable"
// @Security BearerAuth
// @Router /ledger/status [get]
func (h *ledgerHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	st, err := h.ledgerService.Status(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to get ledger status")
		return
	}

	c.JSON(http.StatusOK, dto.LedgerStatusResponse{
		Ledger:         string(st.Ledger.ID),
		NativeCurrency: st.Ledger.NativeCurrency,
		ValidatedIndex: st.ValidatedIndex,
		BaseFee:        st.BaseFee.Amount.String(),
		OpenLedgerFee:  st.OpenLedgerFee.Amount.String(),
	})
}
