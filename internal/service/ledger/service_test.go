package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
	"github.com/mamadbah2/babystock/internal/repository/memory"
)

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.NewStore(), nil)
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc
}

func TestCreateItem_Defaults(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.CreateItem(context.Background(), models.ItemDraft{Barcode: " 0001 ", Name: " Wipes "})
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "0001", item.Barcode)
	assert.Equal(t, "Wipes", item.Name)
	assert.Equal(t, models.CategoryOther, item.Category)
	assert.Equal(t, models.UnitPieces, item.UnitType)
	assert.Equal(t, 0, item.CurrentStock)
	assert.Equal(t, models.DefaultMinStockAlert, item.MinStockAlert)
	assert.Nil(t, item.LastUsed)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
}

func TestCreateItem_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft models.ItemDraft
		want  error
	}{
		{"blank barcode", models.ItemDraft{Barcode: "  ", Name: "x"}, models.ErrValidation},
		{"blank name", models.ItemDraft{Barcode: "1", Name: ""}, models.ErrValidation},
		{"unknown category", models.ItemDraft{Barcode: "1", Name: "x", Category: "Snacks"}, models.ErrValidation},
		{"unknown unit", models.ItemDraft{Barcode: "1", Name: "x", UnitType: "litres"}, models.ErrValidation},
		{"negative stock", models.ItemDraft{Barcode: "1", Name: "x", CurrentStock: intPtr(-1)}, models.ErrInvalidQuantity},
		{"negative threshold", models.ItemDraft{Barcode: "1", Name: "x", MinStockAlert: intPtr(-2)}, models.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.draft)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateItem_DuplicateBarcode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "123", Name: "Diapers"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, models.ItemDraft{Barcode: "123", Name: "Other diapers"})
	require.ErrorIs(t, err, models.ErrConflict)

	items, _ := svc.ListAll(ctx)
	assert.Len(t, items, 1)
}

func TestUseStock_DrainsToOutOfStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Formula", CurrentStock: intPtr(10), MinStockAlert: intPtr(5)})
	require.NoError(t, err)

	item, _, err = svc.UseStock(ctx, item.ID, 7, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, item.CurrentStock)
	assert.Equal(t, models.StockStatusLow, item.Status())

	item, _, err = svc.UseStock(ctx, item.ID, 3, "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, item.CurrentStock)
	assert.Equal(t, models.StockStatusOut, item.Status())

	_, _, err = svc.UseStock(ctx, item.ID, 1, "", "")
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	current, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.CurrentStock)
}

func TestUseStock_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Formula", CurrentStock: intPtr(10)})
	require.NoError(t, err)

	for _, q := range []int{0, -1} {
		_, _, err := svc.UseStock(ctx, item.ID, q, "", "")
		assert.ErrorIs(t, err, models.ErrInvalidQuantity, "quantity %d", q)
	}

	current, _ := svc.GetByID(ctx, item.ID)
	assert.Equal(t, 10, current.CurrentStock)
}

func TestUseStock_RecordsEvent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Formula", CurrentStock: intPtr(4)})
	require.NoError(t, err)

	updated, event, err := svc.UseStock(ctx, item.ID, 2, "", " night feed ")
	require.NoError(t, err)

	assert.Equal(t, "A", event.Barcode)
	assert.Equal(t, item.ID, event.ItemID)
	assert.Equal(t, 2, event.QuantityUsed)
	assert.Equal(t, "night feed", event.Notes)
	require.NotNil(t, updated.LastUsed)
	assert.True(t, updated.LastUsed.Equal(event.Timestamp))

	_, _, err = svc.UseStock(ctx, "missing", 1, "", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Wipes"})
	require.NoError(t, err)

	_, err = svc.AddStock(ctx, item.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	updated, err := svc.AddStock(ctx, item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.CurrentStock)
	assert.Nil(t, updated.LastUsed)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.AddStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddStock_RejectsOverflow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Wipes", CurrentStock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.AddStock(ctx, item.ID, math.MaxInt)
	require.ErrorIs(t, err, models.ErrInvalidQuantity)

	stored, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStock)
	assert.Equal(t, models.StockStatusLow, stored.Status())
}

func TestAddStock_Concurrent(t *testing.T) {
	svc := newTestService(t)
	svc.now = time.Now
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Wipes"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddStock(ctx, item.ID, 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	current, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.CurrentStock)
}

func TestAddThenUse_Commutes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "a", CurrentStock: intPtr(5)})
	b, _ := svc.CreateItem(ctx, models.ItemDraft{Barcode: "B", Name: "b", CurrentStock: intPtr(5)})

	_, err := svc.AddStock(ctx, a.ID, 3)
	require.NoError(t, err)
	_, _, err = svc.UseStock(ctx, a.ID, 4, "", "")
	require.NoError(t, err)

	_, _, err = svc.UseStock(ctx, b.ID, 4, "", "")
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, b.ID, 3)
	require.NoError(t, err)

	a, _ = svc.GetByID(ctx, a.ID)
	b, _ = svc.GetByID(ctx, b.ID)
	assert.Equal(t, a.CurrentStock, b.CurrentStock)
}

func TestUpdateItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, models.ItemDraft{Barcode: "A", Name: "Wipes", CurrentStock: intPtr(3)})
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdateItem(ctx, item.ID, models.ItemUpdate{Name: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpdateItem(ctx, item.ID, models.ItemUpdate{CurrentStock: intPtr(-1)})
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	category := models.CategoryWetWipes
	updated, err := svc.UpdateItem(ctx, item.ID, models.ItemUpdate{CurrentStock: intPtr(40), Category: &category})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.CurrentStock)
	assert.Equal(t, models.CategoryWetWipes, updated.Category)
	assert.Equal(t, "Wipes", updated.Name)

	events, err := memoryUsage(svc)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLowStock_ExcludesEmptyItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _ = svc.CreateItem(ctx, models.ItemDraft{Barcode: "out", Name: "out", CurrentStock: intPtr(0)})
	_, _ = svc.CreateItem(ctx, models.ItemDraft{Barcode: "low", Name: "low", CurrentStock: intPtr(5)})
	_, _ = svc.CreateItem(ctx, models.ItemDraft{Barcode: "ok", Name: "ok", CurrentStock: intPtr(6)})

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "low", low[0].Barcode)
}

func memoryUsage(svc *Service) ([]models.UsageEvent, error) {
	return svc.repo.ListUsage(context.Background())
}
