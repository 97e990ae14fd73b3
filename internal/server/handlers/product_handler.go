package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// ProductLookup queries the external product database.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*models.ProductInfo, error)
}

// ProductHandler proxies product lookups for the web client.
type ProductHandler struct {
	lookup ProductLookup
	logger *zap.Logger
}

// NewProductHandler constructs the product handler.
func NewProductHandler(lookup ProductLookup, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{lookup: lookup, logger: logger}
}

// Lookup handles POST /products/lookup/:barcode. Upstream failures answer
// found=false so the client can fall back to manual entry.
func (h *ProductHandler) Lookup(c *gin.Context) {
	barcode := strings.TrimSpace(c.Param("barcode"))

	info, err := h.lookup.Lookup(c.Request.Context(), barcode)
	if err != nil {
		h.logger.Warn("product lookup failed", zap.String("barcode", barcode), zap.Error(err))
		c.JSON(http.StatusOK, models.ProductInfo{Found: false})
		return
	}
	c.JSON(http.StatusOK, info)
}
