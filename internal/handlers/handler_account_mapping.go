package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

type accountMappingHandler struct {
	mappingService portssvc.AccountMappingSvcFacade
}

func registerAccountMappingRoutes(rg *gin.RouterGroup, mappingService portssvc.AccountMappingSvcFacade) {
	h := &accountMappingHandler{mappingService: mappingService}

	mappings := rg.Group("/account-mappings")
	{
		mappings.POST("", h.createMapping)
		mappings.GET("", h.listMappings)
		mappings.DELETE("/:mappingID", h.deleteMapping)
	}
}

// createMapping godoc
// @Summary Map a bank account to a wallet
// @Description Stores the wallet that receives payments addressed to a bank account
// @Tags account mappings
// @Accept  json
// @Produce  json
// @Param   mapping body dto.CreateAccountMappingRequest true "Mapping"
// @Success 201 {object} dto.AccountMappingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Bank account already mapped"
// @Security BearerAuth
// @Router /account-mappings [post]
func (h *accountMappingHandler) createMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountMappingRequest
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

	m, err := h.mappingService.SaveMapping(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to save account mapping")
		return
	}

	logger.Info("Account mapping saved", slog.String("mapping_id", m.MappingID))
	c.JSON(http.StatusCreated, dto.ToAccountMappingResponse(m))
}

// listMappings godoc
// @Summary List account mappings
// @Tags account mappings
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.AccountMappingResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /account-mappings [get]
func (h *accountMappingHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountMappingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	ms, err := h.mappingService.ListMappings(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list account mappings")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountMappingResponse(ms))
}

// deleteMapping godoc
// @Summary Delete an account mapping
// @Tags account mappings
// @Param   mappingID path string true "Mapping ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /account-mappings/{mappingID} [delete]
func (h *accountMappingHandler) deleteMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	mappingID := c.Param("mappingID")

	if err := h.mappingService.DeleteMapping(c.Request.Context(), mappingID); err != nil {
		respondError(c, logger, err, "Failed to delete account mapping")
		return
	}

	logger.Info("Account mapping deleted", slog.String("mapping_id", mappingID))
	c.Status(http.StatusNoContent)
}
