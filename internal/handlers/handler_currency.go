package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// createCurrency godoc
// @Summary Register a currency
// @Description Adds a fiat currency, the native currency or a ledger token (code plus issuer) to the catalog
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Currency already exists"
// @Failure 500 {object} ErrorResponse "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
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

	logger = logger.With(slog.String("creator_user_id", creatorUserID), slog.String("currency_code", req.CurrencyCode))
	logger.Info("Received request to create currency")

	created, err := h.currencyService.CreateCurrency(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created successfully")
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(created))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves a currency by code. Pass issuer to select a ledger token.
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency code" MinLength(3) MaxLength(40)
// @Param   issuer query string false "Issuer address of a token"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid code"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve currency"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyCode := c.Param("code")
	issuer := c.Query("issuer")

	if len(currencyCode) < 3 || len(currencyCode) > 40 {
		respondError(c, logger, apperrors.NewValidationError("currency code must have 3 to 40 characters"), "Invalid currency code")
		return
	}

	logger = logger.With(slog.String("currency_code", currencyCode))
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode, issuer)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve currency")
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Description Retrieves all registered currencies
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} ErrorResponse "Failed to list currencies"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list currencies")
		return
	}

	logger.Info("Currencies listed successfully", slog.Int("count", len(currencies)))
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
