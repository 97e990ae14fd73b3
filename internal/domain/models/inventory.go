package models

import "time"

// Category groups inventory items. Values match the labels used by the web client.
type Category string

const (
	CategoryDiapers           Category = "Diapers"
	CategoryWetWipes          Category = "Wet Wipes"
	CategoryFoodFormula       Category = "Food & Formula"
	CategoryBathCare          Category = "Bath & Care"
	CategoryMedicineHealth    Category = "Medicine & Health"
	CategoryToysEntertainment Category = "Toys & Entertainment"
	CategoryClothing          Category = "Clothing"
	CategoryOther             Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryDiapers,
	CategoryWetWipes,
	CategoryFoodFormula,
	CategoryBathCare,
	CategoryMedicineHealth,
	CategoryToysEntertainment,
	CategoryClothing,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UnitType is the counting unit of an item's stock.
type UnitType string

const (
	UnitPieces  UnitType = "pieces"
	UnitBottles UnitType = "bottles"
	UnitPacks   UnitType = "packs"
	UnitBoxes   UnitType = "boxes"
	UnitTubes   UnitType = "tubes"
	UnitJars    UnitType = "jars"
	UnitCans    UnitType = "cans"
)

// UnitTypes lists every supported unit.
var UnitTypes = []UnitType{UnitPieces, UnitBottles, UnitPacks, UnitBoxes, UnitTubes, UnitJars, UnitCans}

// Valid reports whether u is one of the known units.
func (u UnitType) Valid() bool {
	for _, known := range UnitTypes {
		if u == known {
			return true
		}
	}
	return false
}

const (
	// DefaultMinStockAlert is applied when a draft carries no threshold.
	DefaultMinStockAlert = 5
)

// StockStatus classifies an item for restocking purposes.
type StockStatus string

const (
	StockStatusOut     StockStatus = "out_of_stock"
	StockStatusLow     StockStatus = "low_stock"
	StockStatusHealthy StockStatus = "in_stock"
)

// InventoryItem is a tracked baby-supply product.
type InventoryItem struct {
	ID            string     `bson:"_id" json:"id"`
	Barcode       string     `bson:"barcode" json:"barcode"`
	Name          string     `bson:"name" json:"name"`
	Category      Category   `bson:"category" json:"category"`
	Brand         string     `bson:"brand" json:"brand"`
	Size          string     `bson:"size" json:"size"`
	UnitType      UnitType   `bson:"unit_type" json:"unit_type"`
	CurrentStock  int        `bson:"current_stock" json:"current_stock"`
	MinStockAlert int        `bson:"min_stock_alert" json:"min_stock_alert"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
	LastUsed      *time.Time `bson:"last_used" json:"last_used"`
	// Seq is the creation sequence number used for stable listing order.
	Seq int64 `bson:"seq" json:"-"`
}

// Status returns the restocking classification of the item. Every item falls
// into exactly one of the three statuses.
func (i InventoryItem) Status() StockStatus {
	switch {
	case i.CurrentStock <= 0:
		return StockStatusOut
	case i.CurrentStock <= i.MinStockAlert:
		return StockStatusLow
	default:
		return StockStatusHealthy
	}
}

// ItemDraft carries the fields for a new inventory item. Nil quantities fall
// back to the ledger defaults.
type ItemDraft struct {
	Barcode       string   `json:"barcode"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Brand         string   `json:"brand"`
	Size          string   `json:"size"`
	UnitType      UnitType `json:"unit_type"`
	CurrentStock  *int     `json:"current_stock"`
	MinStockAlert *int     `json:"min_stock_alert"`
}

// ItemUpdate is an administrative correction; nil fields are left untouched.
type ItemUpdate struct {
	Name          *string   `json:"name"`
	Category      *Category `json:"category"`
	Brand         *string   `json:"brand"`
	Size          *string   `json:"size"`
	UnitType      *UnitType `json:"unit_type"`
	CurrentStock  *int      `json:"current_stock"`
	MinStockAlert *int      `json:"min_stock_alert"`
}

// IsEmpty reports whether the update carries no field at all.
func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Brand == nil && u.Size == nil &&
		u.UnitType == nil && u.CurrentStock == nil && u.MinStockAlert == nil
}

// Apply copies the non-nil fields of u onto item.
func (u ItemUpdate) Apply(item *InventoryItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Brand != nil {
		item.Brand = *u.Brand
	}
	if u.Size != nil {
		item.Size = *u.Size
	}
	if u.UnitType != nil {
		item.UnitType = *u.UnitType
	}
	if u.CurrentStock != nil {
		item.CurrentStock = *u.CurrentStock
	}
	if u.MinStockAlert != nil {
		item.MinStockAlert = *u.MinStockAlert
	}
}
