package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

const (
	defaultUsageLimit = 100
	defaultUsageDays  = 7
)

// DashboardService is the aggregator as seen by the HTTP layer.
type DashboardService interface {
	Stats(ctx context.Context) (models.DashboardSnapshot, error)
	Categories(ctx context.Context) ([]models.CategoryBreakdown, error)
	RecentUsage(ctx context.Context, limit int) ([]models.UsageEvent, error)
	UsageSummary(ctx context.Context, since time.Time) ([]models.UsageTotal, error)
}

// DashboardHandler serves the dashboard and usage log endpoints.
type DashboardHandler struct {
	svc    DashboardService
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(svc DashboardService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger, now: time.Now}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Categories handles GET /dashboard/categories.
func (h *DashboardHandler) Categories(c *gin.Context) {
	breakdown, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// UsageLogs handles GET /usage-logs?limit=N.
func (h *DashboardHandler) UsageLogs(c *gin.Context) {
	limit, err := positiveQuery(c, "limit", defaultUsageLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	events, err := h.svc.RecentUsage(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// UsageSummary handles GET /usage-logs/summary?days=N.
func (h *DashboardHandler) UsageSummary(c *gin.Context) {
	days, err := positiveQuery(c, "days", defaultUsageDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.svc.UsageSummary(c.Request.Context(), h.now().AddDate(0, 0, -days))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "items": summary})
}

func positiveQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q: %w", key, raw, models.ErrValidation)
	}
	return v, nil
}
