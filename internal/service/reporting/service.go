package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Source is the read side of the inventory store.
type Source interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	RecentUsage(ctx context.Context, limit int) ([]models.UsageEvent, error)
	ListUsage(ctx context.Context) ([]models.UsageEvent, error)
}

// Service derives dashboard figures on demand. Nothing it computes is stored.
type Service struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger, now: time.Now}
}

// Stats returns the current dashboard snapshot.
func (s *Service) Stats(ctx context.Context) (models.DashboardSnapshot, error) {
	items, err := s.source.ListItems(ctx)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("load items: %w", err)
	}
	return ComputeStats(items), nil
}

// Categories returns the per-category breakdown.
func (s *Service) Categories(ctx context.Context) ([]models.CategoryBreakdown, error) {
	items, err := s.source.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return ComputeCategoryBreakdown(items), nil
}

// RecentUsage returns up to limit usage events, newest first.
func (s *Service) RecentUsage(ctx context.Context, limit int) ([]models.UsageEvent, error) {
	events, err := s.source.RecentUsage(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	return events, nil
}

// LowStockItems returns the items that need restocking: low first, then out.
func (s *Service) LowStockItems(ctx context.Context) (low, out []models.InventoryItem, err error) {
	items, err := s.source.ListItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	return FilterByStatus(items, models.StockStatusLow), FilterByStatus(items, models.StockStatusOut), nil
}

// UsageSummary totals consumption per item for events at or after since,
// heaviest consumers first.
func (s *Service) UsageSummary(ctx context.Context, since time.Time) ([]models.UsageTotal, error) {
	events, err := s.source.ListUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("load usage: %w", err)
	}
	items, err := s.source.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	totals := make(map[string]*models.UsageTotal)
	order := make([]string, 0)
	for _, event := range events {
		if event.Timestamp.Before(since) {
			continue
		}
		total, ok := totals[event.ItemID]
		if !ok {
			total = &models.UsageTotal{ItemID: event.ItemID, Barcode: event.Barcode, Name: names[event.ItemID]}
			totals[event.ItemID] = total
			order = append(order, event.ItemID)
		}
		total.Quantity += event.QuantityUsed
		total.Events++
		if event.Timestamp.After(total.LastUsed) {
			total.LastUsed = event.Timestamp
		}
	}

	summary := make([]models.UsageTotal, 0, len(order))
	for _, id := range order {
		summary = append(summary, *totals[id])
	}
	sort.SliceStable(summary, func(i, j int) bool { return summary[i].Quantity > summary[j].Quantity })
	return summary, nil
}

// Digest renders a short restocking message for chat and scheduled reports.
func (s *Service) Digest(ctx context.Context) (string, error) {
	items, err := s.source.ListItems(ctx)
	if err != nil {
		return "", fmt.Errorf("load items: %w", err)
	}

	stats := ComputeStats(items)
	var b strings.Builder
	fmt.Fprintf(&b, "Stock report %s: %d items, %d low, %d out.",
		s.now().Format(dateLayout), stats.TotalItems, stats.LowStockItems, stats.OutOfStockItems)

	if stats.LowStockItems == 0 && stats.OutOfStockItems == 0 {
		b.WriteString("\nEverything is stocked.")
		return b.String(), nil
	}

	for _, item := range FilterByStatus(items, models.StockStatusOut) {
		fmt.Fprintf(&b, "\n- %s: out of stock", item.Name)
	}
	for _, item := range FilterByStatus(items, models.StockStatusLow) {
		fmt.Fprintf(&b, "\n- %s: %d %s left (alert at %d)", item.Name, item.CurrentStock, item.UnitType, item.MinStockAlert)
	}
	return b.String(), nil
}

// UsageDigest renders the consumption of the last days days.
func (s *Service) UsageDigest(ctx context.Context, days int) (string, error) {
	if days <= 0 {
		days = 7
	}
	since := s.now().AddDate(0, 0, -days)
	summary, err := s.UsageSummary(ctx, since)
	if err != nil {
		return "", err
	}
	if len(summary) == 0 {
		return fmt.Sprintf("No usage logged in the last %d days.", days), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage over the last %d days:", days)
	for _, total := range summary {
		name := total.Name
		if name == "" {
			name = total.Barcode
		}
		fmt.Fprintf(&b, "\n- %s: %d used (%d times)", name, total.Quantity, total.Events)
	}
	return b.String(), nil
}
