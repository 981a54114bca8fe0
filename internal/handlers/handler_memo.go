package handlers

import (
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/domain"
	"github.com/SscSPs/ledger_bridge/internal/core/memo"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/gin-gonic/gin"
)

const memoFormatJSON = "json"

func registerMemoRoutes(rg *gin.RouterGroup) {
	memos := rg.Group("/memos")
	{
		memos.POST("/decode", decodeMemo)
		memos.POST("/encode", encodeMemo)
	}
}

// decodeMemo godoc
// @Summary Decode a memo
// @Description Interprets memo data as found on the ledger. Memos that are not structured remittance data come back as free text.
// @Tags memos
// @Accept json
// @Produce json
// @Param memo body dto.DecodeMemoRequest true "Memo data"
// @Success 200 {object} dto.MemoResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/decode [post]
func decodeMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DecodeMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	raw := []byte(req.Memo)
	if req.Hex {
		decoded, err := hex.DecodeString(strings.TrimSpace(req.Memo))
		if err != nil {
			respondError(c, logger, apperrors.NewValidationError("memo is not valid hex"), "Invalid memo")
			return
		}
		raw = decoded
	}

	res := memo.Decode(raw)
	logger.Debug("Memo decoded", slog.String("status", string(res.Status)))
	c.JSON(http.StatusOK, dto.MemoResponse{
		Status:     string(res.Status),
		References: dto.ToReferenceDTOs(res.References),
		FreeText:   nonNil(res.FreeText),
	})
}

// encodeMemo godoc
// @Summary Encode a memo
// @Description Serializes references and free texts into the memo payload written with outbound payments.
// @Tags memos
// @Accept json
// @Produce json
// @Param memo body dto.EncodeMemoRequest true "Remittance data"
// @Success 200 {object} dto.EncodeMemoResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /memos/encode [post]
func encodeMemo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.EncodeMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	refs := make([]domain.StructuredReference, 0, len(req.References))
	for _, r := range req.References {
		refs = append(refs, r.ToDomain())
	}
	data, err := memo.Encode(refs, nonNil(req.FreeText))
	if err != nil {
		respondError(c, logger, err, "Failed to encode memo")
		return
	}

	c.JSON(http.StatusOK, dto.EncodeMemoResponse{
		Memo:   string(data),
		Hex:    strings.ToUpper(hex.EncodeToString(data)),
		Format: memoFormatJSON,
	})
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
