package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/platform/config"
)

const defaultLoginRate = "5-M"

// AuthHandler handles operator authentication.
type AuthHandler struct {
	tokenService portssvc.TokenSvcFacade
}

func NewAuthHandler(ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{tokenService: ts}
}

// registerAuthRoutes sets up the public token endpoint behind a per IP rate limit.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, tokenService portssvc.TokenSvcFacade) {
	h := NewAuthHandler(tokenService)

	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT, using default", slog.String("value", cfg.LoginRateLimit), slog.String("default", defaultLoginRate))
		rate, _ = limiter.NewRateFromFormatted(defaultLoginRate)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/token", middleware.RateLimit(ipLimiter), h.Token)
	}
}

// Token godoc
// @Summary Operator login
// @Description Checks the operator credentials and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Operator credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	token, expiresAt, err := h.tokenService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to issue token")
		return
	}

	logger.Info("Operator logged in", slog.String("username", req.Username))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
