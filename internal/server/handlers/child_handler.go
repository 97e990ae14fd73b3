package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// ChildService manages child records.
type ChildService interface {
	Create(ctx context.Context, draft models.ChildDraft) (*models.ChildView, error)
	Get(ctx context.Context, id string) (*models.ChildView, error)
	List(ctx context.Context) ([]models.ChildView, error)
	Update(ctx context.Context, id string, update models.ChildUpdate) (*models.ChildView, error)
	Delete(ctx context.Context, id string) error
}

// ChildHandler exposes child records under /children.
type ChildHandler struct {
	svc    ChildService
	logger *zap.Logger
}

// NewChildHandler constructs the children handler.
func NewChildHandler(svc ChildService, logger *zap.Logger) *ChildHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChildHandler{svc: svc, logger: logger}
}

func (h *ChildHandler) List(c *gin.Context) {
	children, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (h *ChildHandler) Get(c *gin.Context) {
	child, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, child)
}

func (h *ChildHandler) Create(c *gin.Context) {
	var draft models.ChildDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	child, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, child)
}

func (h *ChildHandler) Update(c *gin.Context) {
	var update models.ChildUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	child, err := h.svc.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, child)
}

func (h *ChildHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child deleted successfully"})
}
