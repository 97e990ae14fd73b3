// Package repository declares the storage contracts shared by the memory and
// MongoDB backends.
package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// InventoryRepository persists inventory items and their usage log.
//
// Implementations return errors wrapping models.ErrNotFound, models.ErrConflict
// and models.ErrInsufficientStock. Returned items are copies; mutating them
// does not affect the store.
type InventoryRepository interface {
	// InsertItem stores a new item and assigns its creation sequence. The
	// barcode check and the insert are one atomic step.
	InsertItem(ctx context.Context, item *models.InventoryItem) error
	FindItemByID(ctx context.Context, id string) (*models.InventoryItem, error)
	FindItemByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error)
	// ListItems returns every item in creation order.
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	// IncrementStock atomically adds quantity to the item's stock. It fails
	// with models.ErrInvalidQuantity when the sum would overflow.
	IncrementStock(ctx context.Context, id string, quantity int, at time.Time) (*models.InventoryItem, error)
	// ConsumeStock decrements the stock by event.QuantityUsed when enough is on
	// hand, advances last_used and appends event to the usage log. Either both
	// mutations happen or neither does. An empty event.Barcode is filled with
	// the item's barcode.
	ConsumeStock(ctx context.Context, id string, event *models.UsageEvent) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, update models.ItemUpdate, at time.Time) (*models.InventoryItem, error)
	// RecentUsage returns up to limit events, newest first. A limit <= 0
	// returns no events.
	RecentUsage(ctx context.Context, limit int) ([]models.UsageEvent, error)
	// ListUsage returns every event in append order.
	ListUsage(ctx context.Context) ([]models.UsageEvent, error)
}

// ChildRepository persists child records.
type ChildRepository interface {
	InsertChild(ctx context.Context, child *models.Child) error
	FindChild(ctx context.Context, id string) (*models.Child, error)
	ListChildren(ctx context.Context) ([]models.Child, error)
	UpdateChild(ctx context.Context, id string, update models.ChildUpdate, at time.Time) (*models.Child, error)
	DeleteChild(ctx context.Context, id string) error
}

// Store bundles every repository a storage backend provides.
type Store interface {
	InventoryRepository
	ChildRepository
	Close(ctx context.Context) error
}
