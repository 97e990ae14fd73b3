// Package scanner turns decoded barcodes into next-step actions for the
// caller. It reads the ledger but never mutates stock on its own.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// Ledger is the subset of the stock ledger the resolver depends on.
type Ledger interface {
	GetByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error)
	CreateItem(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error)
}

// ProductLookup queries an external product database.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*models.ProductInfo, error)
}

// Resolver implements the barcode resolution state machine.
type Resolver struct {
	ledger Ledger
	lookup ProductLookup
	logger *zap.Logger
}

// NewResolver wires a resolver. lookup may be nil, in which case every
// unknown barcode yields a blank draft.
func NewResolver(ledger Ledger, lookup ProductLookup, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{ledger: ledger, lookup: lookup, logger: logger}
}

// ParseMode maps the wire value of a scan mode. Empty means detect.
func ParseMode(raw string) (models.ScanMode, error) {
	switch models.ScanMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.ScanModeDetect:
		return models.ScanModeDetect, nil
	case models.ScanModeAddStock:
		return models.ScanModeAddStock, nil
	case models.ScanModeUseItem:
		return models.ScanModeUseItem, nil
	default:
		return "", fmt.Errorf("unknown scan mode %q: %w", raw, models.ErrValidation)
	}
}

// Resolve decides what the caller should do with barcode under mode.
// Lookup failures degrade to a blank draft and are never returned.
func (r *Resolver) Resolve(ctx context.Context, barcode string, mode models.ScanMode) (*models.ScanResolution, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("barcode is required: %w", models.ErrValidation)
	}
	if mode == "" {
		mode = models.ScanModeDetect
	}

	item, err := r.ledger.GetByBarcode(ctx, barcode)
	switch {
	case err == nil:
		return &models.ScanResolution{
			Action:  actionFor(mode),
			Barcode: barcode,
			Mode:    mode,
			Item:    item,
		}, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("resolve %s: %w", barcode, err)
	}

	resolution := &models.ScanResolution{
		Action:  models.ActionCreateDraft,
		Barcode: barcode,
		Mode:    mode,
		Draft:   blankDraft(barcode),
	}

	if r.lookup == nil {
		return resolution, nil
	}

	product, err := r.lookup.Lookup(ctx, barcode)
	if err != nil {
		r.logger.Warn("product lookup failed, continuing with blank draft",
			zap.String("barcode", barcode),
			zap.Error(err))
		resolution.LookupFailed = true
		return resolution, nil
	}

	resolution.Product = product
	if product != nil && product.Found {
		prefill(resolution.Draft, product)
	}
	return resolution, nil
}

// SubmitDraft creates the confirmed draft. When another caller created the
// same barcode first, the scan is re-resolved as an add-stock instead.
func (r *Resolver) SubmitDraft(ctx context.Context, draft models.ItemDraft) (*models.DraftOutcome, error) {
	item, err := r.ledger.CreateItem(ctx, draft)
	if err == nil {
		return &models.DraftOutcome{Item: item}, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, err
	}

	r.logger.Info("draft barcode already exists, switching to add stock",
		zap.String("barcode", draft.Barcode))

	resolution, err := r.Resolve(ctx, draft.Barcode, models.ScanModeAddStock)
	if err != nil {
		return nil, err
	}
	return &models.DraftOutcome{Resolution: resolution}, nil
}

func actionFor(mode models.ScanMode) models.ScanAction {
	switch mode {
	case models.ScanModeAddStock:
		return models.ActionAddStock
	case models.ScanModeUseItem:
		return models.ActionUseItem
	default:
		return models.ActionPresentChoice
	}
}

func blankDraft(barcode string) *models.ItemDraft {
	stock := 0
	threshold := models.DefaultMinStockAlert
	return &models.ItemDraft{
		Barcode:       barcode,
		Category:      models.CategoryOther,
		UnitType:      models.UnitPieces,
		CurrentStock:  &stock,
		MinStockAlert: &threshold,
	}
}

func prefill(draft *models.ItemDraft, product *models.ProductInfo) {
	draft.Name = product.ProductName
	draft.Brand = product.Brand
	draft.Size = product.Size
	if category := models.Category(product.Category); category.Valid() {
		draft.Category = category
	}
}
