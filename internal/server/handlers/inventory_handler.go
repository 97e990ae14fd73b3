package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// InventoryService is the stock ledger as seen by the HTTP layer.
type InventoryService interface {
	CreateItem(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	AddStock(ctx context.Context, id string, quantity int) (*models.InventoryItem, error)
	UseStock(ctx context.Context, id string, quantity int, barcode, notes string) (*models.InventoryItem, *models.UsageEvent, error)
	UpdateItem(ctx context.Context, id string, update models.ItemUpdate) (*models.InventoryItem, error)
}

// InventoryHandler exposes the ledger under /inventory.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory handler.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns every item in creation order.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// LowStock returns items at or below their alert threshold but not empty.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetByBarcode looks an item up by barcode.
func (h *InventoryHandler) GetByBarcode(c *gin.Context) {
	item, err := h.svc.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Get returns one item by id.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create stores a new item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var draft models.ItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update applies an administrative correction. An empty body changes nothing.
func (h *InventoryHandler) Update(c *gin.Context) {
	var update models.ItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	id := c.Param("id")
	var (
		item *models.InventoryItem
		err  error
	)
	if update.IsEmpty() {
		item, err = h.svc.GetByID(c.Request.Context(), id)
	} else {
		item, err = h.svc.UpdateItem(c.Request.Context(), id, update)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AddStock handles POST /inventory/:id/add-stock?quantity=N.
func (h *InventoryHandler) AddStock(c *gin.Context) {
	raw := c.Query("quantity")
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("quantity %q: %w", raw, models.ErrInvalidQuantity))
		return
	}

	item, err := h.svc.AddStock(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Added %d units to stock", quantity),
		"new_stock": item.CurrentStock,
		"item":      item,
	})
}

type useRequest struct {
	ItemID       string          `json:"item_id"`
	Barcode      string          `json:"barcode"`
	QuantityUsed json.RawMessage `json:"quantity_used"`
	Notes        string          `json:"notes"`
}

// quantity returns the requested quantity; an absent value means one unit.
func (r useRequest) quantity() (int, error) {
	if len(r.QuantityUsed) == 0 || string(r.QuantityUsed) == "null" {
		return 1, nil
	}
	var q int
	if err := json.Unmarshal(r.QuantityUsed, &q); err != nil {
		return 0, fmt.Errorf("quantity_used %s: %w", r.QuantityUsed, models.ErrInvalidQuantity)
	}
	return q, nil
}

// Use records consumption of an item.
func (h *InventoryHandler) Use(c *gin.Context) {
	var req useRequest
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			badRequest(c, h.logger, err)
			return
		}
	}

	id := c.Param("id")
	if req.ItemID != "" && req.ItemID != id {
		badRequest(c, h.logger, fmt.Errorf("item_id %q does not match path id %q", req.ItemID, id))
		return
	}

	quantity, err := req.quantity()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, event, err := h.svc.UseStock(c.Request.Context(), id, quantity, req.Barcode, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("Used %d units", quantity),
		"remaining_stock": item.CurrentStock,
		"item":            item,
		"usage":           event,
	})
}
