package models

// DashboardSnapshot is derived on demand from the ledger and never persisted.
type DashboardSnapshot struct {
	TotalItems      int `json:"total_items"`
	LowStockItems   int `json:"low_stock_items"`
	OutOfStockItems int `json:"out_of_stock_items"`
	HealthyItems    int `json:"healthy_items"`
}

// CategoryBreakdown summarises the items of one category.
type CategoryBreakdown struct {
	Category      Category `json:"category"`
	Count         int      `json:"count"`
	TotalStock    int      `json:"total_stock"`
	LowStockCount int      `json:"low_stock_count"`
}
