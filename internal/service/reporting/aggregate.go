package reporting

import "github.com/mamadbah2/babystock/internal/domain/models"

// Classify returns the restocking status of item.
func Classify(item models.InventoryItem) models.StockStatus {
	return item.Status()
}

// ComputeStats partitions items into out-of-stock, low and healthy counts.
// The three counts always add up to TotalItems.
func ComputeStats(items []models.InventoryItem) models.DashboardSnapshot {
	snapshot := models.DashboardSnapshot{TotalItems: len(items)}
	for _, item := range items {
		switch Classify(item) {
		case models.StockStatusOut:
			snapshot.OutOfStockItems++
		case models.StockStatusLow:
			snapshot.LowStockItems++
		default:
			snapshot.HealthyItems++
		}
	}
	return snapshot
}

// ComputeCategoryBreakdown groups items by category in display order,
// skipping empty categories. Zero-stock items are not counted as low.
func ComputeCategoryBreakdown(items []models.InventoryItem) []models.CategoryBreakdown {
	groups := make(map[models.Category]*models.CategoryBreakdown)
	for _, item := range items {
		group, ok := groups[item.Category]
		if !ok {
			group = &models.CategoryBreakdown{Category: item.Category}
			groups[item.Category] = group
		}
		group.Count++
		group.TotalStock += item.CurrentStock
		if Classify(item) == models.StockStatusLow {
			group.LowStockCount++
		}
	}

	breakdown := make([]models.CategoryBreakdown, 0, len(groups))
	for _, category := range models.Categories {
		if group, ok := groups[category]; ok {
			breakdown = append(breakdown, *group)
			delete(groups, category)
		}
	}
	// Categories stored before the list was fixed go last.
	for _, item := range items {
		if group, ok := groups[item.Category]; ok {
			breakdown = append(breakdown, *group)
			delete(groups, item.Category)
		}
	}
	return breakdown
}

// FilterByStatus returns the items classified as status, keeping order.
func FilterByStatus(items []models.InventoryItem, status models.StockStatus) []models.InventoryItem {
	out := make([]models.InventoryItem, 0)
	for _, item := range items {
		if Classify(item) == status {
			out = append(out, item)
		}
	}
	return out
}
