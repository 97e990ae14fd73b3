// Package ledger owns the inventory items and is the only writer of stock
// quantities and usage events.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
	"github.com/mamadbah2/babystock/internal/repository"
)

// Service implements the stock ledger on top of an InventoryRepository.
type Service struct {
	repo   repository.InventoryRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs a ledger.
func NewService(repo repository.InventoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateItem validates draft, applies defaults and stores a new item.
func (s *Service) CreateItem(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error) {
	item, err := s.buildItem(draft)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("item created",
		zap.String("item_id", item.ID),
		zap.String("barcode", item.Barcode),
		zap.Int("stock", item.CurrentStock))
	return item, nil
}

func (s *Service) buildItem(draft models.ItemDraft) (*models.InventoryItem, error) {
	barcode := strings.TrimSpace(draft.Barcode)
	if barcode == "" {
		return nil, fmt.Errorf("barcode is required: %w", models.ErrValidation)
	}
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrValidation)
	}

	category := draft.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", category, models.ErrValidation)
	}

	unit := draft.UnitType
	if unit == "" {
		unit = models.UnitPieces
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("unknown unit type %q: %w", unit, models.ErrValidation)
	}

	stock := 0
	if draft.CurrentStock != nil {
		stock = *draft.CurrentStock
	}
	threshold := models.DefaultMinStockAlert
	if draft.MinStockAlert != nil {
		threshold = *draft.MinStockAlert
	}
	if stock < 0 || threshold < 0 {
		return nil, fmt.Errorf("stock and threshold must not be negative: %w", models.ErrInvalidQuantity)
	}

	now := s.now().UTC()
	return &models.InventoryItem{
		ID:            s.newID(),
		Barcode:       barcode,
		Name:          name,
		Category:      category,
		Brand:         strings.TrimSpace(draft.Brand),
		Size:          strings.TrimSpace(draft.Size),
		UnitType:      unit,
		CurrentStock:  stock,
		MinStockAlert: threshold,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// GetByBarcode returns the item carrying barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error) {
	return s.repo.FindItemByBarcode(ctx, strings.TrimSpace(barcode))
}

// GetByID returns the item with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.repo.FindItemByID(ctx, id)
}

// ListAll returns every item in creation order.
func (s *Service) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.ListItems(ctx)
}

// LowStock returns the items that are running low but not yet out.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.Status() == models.StockStatusLow {
			low = append(low, item)
		}
	}
	return low, nil
}

// AddStock increments the item's stock. last_used is left untouched.
func (s *Service) AddStock(ctx context.Context, id string, quantity int) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add %d: %w", quantity, models.ErrInvalidQuantity)
	}

	item, err := s.repo.IncrementStock(ctx, id, quantity, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("add stock: %w", err)
	}

	s.logger.Info("stock added",
		zap.String("item_id", id),
		zap.Int("quantity", quantity),
		zap.Int("stock", item.CurrentStock))
	return item, nil
}

// UseStock consumes quantity units and records one usage event. An empty
// barcode is replaced by the item's current barcode.
func (s *Service) UseStock(ctx context.Context, id string, quantity int, barcode, notes string) (*models.InventoryItem, *models.UsageEvent, error) {
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("use %d: %w", quantity, models.ErrInvalidQuantity)
	}

	event := &models.UsageEvent{
		ID:           s.newID(),
		ItemID:       id,
		Barcode:      strings.TrimSpace(barcode),
		QuantityUsed: quantity,
		Timestamp:    s.now().UTC(),
		Notes:        strings.TrimSpace(notes),
	}

	item, err := s.repo.ConsumeStock(ctx, id, event)
	if err != nil {
		return nil, nil, fmt.Errorf("use stock: %w", err)
	}

	s.logger.Info("stock used",
		zap.String("item_id", id),
		zap.Int("quantity", quantity),
		zap.Int("stock", item.CurrentStock))
	return item, event, nil
}

// UpdateItem applies an administrative correction. It never writes a usage event.
func (s *Service) UpdateItem(ctx context.Context, id string, update models.ItemUpdate) (*models.InventoryItem, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be blank: %w", models.ErrValidation)
		}
		update.Name = &name
	}
	if update.Category != nil && !update.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", *update.Category, models.ErrValidation)
	}
	if update.UnitType != nil && !update.UnitType.Valid() {
		return nil, fmt.Errorf("unknown unit type %q: %w", *update.UnitType, models.ErrValidation)
	}
	if update.CurrentStock != nil && *update.CurrentStock < 0 {
		return nil, fmt.Errorf("current_stock %d: %w", *update.CurrentStock, models.ErrInvalidQuantity)
	}
	if update.MinStockAlert != nil && *update.MinStockAlert < 0 {
		return nil, fmt.Errorf("min_stock_alert %d: %w", *update.MinStockAlert, models.ErrInvalidQuantity)
	}

	item, err := s.repo.UpdateItem(ctx, id, update, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.logger.Info("item updated", zap.String("item_id", id))
	return item, nil
}
