package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
	"github.com/mamadbah2/babystock/internal/service/scanner"
)

// ScanService resolves scanned barcodes.
type ScanService interface {
	Resolve(ctx context.Context, barcode string, mode models.ScanMode) (*models.ScanResolution, error)
	SubmitDraft(ctx context.Context, draft models.ItemDraft) (*models.DraftOutcome, error)
}

// ScanHandler exposes the barcode resolver under /scan.
type ScanHandler struct {
	svc    ScanService
	logger *zap.Logger
}

// NewScanHandler constructs the scan handler.
func NewScanHandler(svc ScanService, logger *zap.Logger) *ScanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanHandler{svc: svc, logger: logger}
}

type resolveRequest struct {
	Barcode string `json:"barcode"`
	Mode    string `json:"mode"`
}

// Resolve handles POST /scan/resolve.
func (h *ScanHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	mode, err := scanner.ParseMode(req.Mode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resolution, err := h.svc.Resolve(c.Request.Context(), req.Barcode, mode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resolution)
}

// SubmitDraft handles POST /scan/drafts. A created item answers 201; a
// barcode that appeared meanwhile answers 200 with an add-stock resolution.
func (h *ScanHandler) SubmitDraft(c *gin.Context) {
	var draft models.ItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	outcome, err := h.svc.SubmitDraft(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if outcome.Item != nil {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}
