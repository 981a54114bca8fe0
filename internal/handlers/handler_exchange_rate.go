package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Stores the rate of one unit of the from currency in the to currency
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Unknown currency"
// @Failure 500 {object} ErrorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the latest exchange rate for a given currency pair
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From currency code"
// @Param   to   path string true "To currency code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 404 {object} ErrorResponse "Exchange rate not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))
	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

type listExchangeRatesParams struct {
	Limit int `form:"limit,default=100" binding:"min=1,max=500"`
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Description Lists the most recent exchange rates, newest first
// @Tags exchange rates
// @Produce  json
// @Param   limit query int false "Maximum number of rates" default(100)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 500 {object} ErrorResponse "Failed to list exchange rates"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params listExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}
