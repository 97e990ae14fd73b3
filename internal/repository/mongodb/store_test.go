package mongodb

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

func getStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("babystock_test_%d", time.Now().UnixNano())
	store, err := NewStore(ctx, uri, dbName, nil)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func newItem(barcode string, stock int) *models.InventoryItem {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.InventoryItem{
		ID:            uuid.NewString(),
		Barcode:       barcode,
		Name:          "Diapers size 3",
		Category:      models.CategoryDiapers,
		UnitType:      models.UnitPacks,
		CurrentStock:  stock,
		MinStockAlert: 5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestStore_InsertAndFind(t *testing.T) {
	store := getStore(t)
	ctx := context.Background()

	first := newItem("111", 3)
	require.NoError(t, store.InsertItem(ctx, first))
	require.NoError(t, store.InsertItem(ctx, newItem("222", 0)))

	err := store.InsertItem(ctx, newItem("111", 9))
	assert.ErrorIs(t, err, models.ErrConflict)

	found, err := store.FindItemByBarcode(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Nil(t, found.LastUsed)

	_, err = store.FindItemByID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "111", items[0].Barcode)
	assert.Equal(t, "222", items[1].Barcode)
}

func TestStore_ConsumeStock(t *testing.T) {
	store := getStore(t)
	ctx := context.Background()

	item := newItem("333", 2)
	require.NoError(t, store.InsertItem(ctx, item))

	_, err := store.IncrementStock(ctx, item.ID, 3, time.Now())
	require.NoError(t, err)

	event := &models.UsageEvent{ID: uuid.NewString(), QuantityUsed: 4, Timestamp: time.Now().UTC()}
	updated, err := store.ConsumeStock(ctx, item.ID, event)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentStock)
	assert.NotNil(t, updated.LastUsed)
	assert.Equal(t, "333", event.Barcode)

	_, err = store.ConsumeStock(ctx, item.ID, &models.UsageEvent{ID: uuid.NewString(), QuantityUsed: 2, Timestamp: time.Now().UTC()})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = store.ConsumeStock(ctx, "missing", &models.UsageEvent{ID: uuid.NewString(), QuantityUsed: 1, Timestamp: time.Now().UTC()})
	assert.ErrorIs(t, err, models.ErrNotFound)

	events, err := store.RecentUsage(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 4, events[0].QuantityUsed)

	events, err = store.RecentUsage(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_IncrementStockOverflow(t *testing.T) {
	store := getStore(t)
	ctx := context.Background()

	item := newItem("444", 1)
	require.NoError(t, store.InsertItem(ctx, item))

	_, err := store.IncrementStock(ctx, item.ID, math.MaxInt64, time.Now())
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = store.IncrementStock(ctx, "missing", 1, time.Now())
	assert.ErrorIs(t, err, models.ErrNotFound)

	found, err := store.FindItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.CurrentStock)
}

func TestStore_Children(t *testing.T) {
	store := getStore(t)
	ctx := context.Background()

	child := &models.Child{ID: uuid.NewString(), Name: "Ada", DateOfBirth: "2023-05-01"}
	require.NoError(t, store.InsertChild(ctx, child))

	weight := 9.5
	updated, err := store.UpdateChild(ctx, child.ID, models.ChildUpdate{Weight: &weight}, time.Now())
	require.NoError(t, err)
	require.NotNil(t, updated.Weight)
	assert.InDelta(t, 9.5, *updated.Weight, 0.001)

	require.NoError(t, store.DeleteChild(ctx, child.ID))
	assert.ErrorIs(t, store.DeleteChild(ctx, child.ID), models.ErrNotFound)
}
