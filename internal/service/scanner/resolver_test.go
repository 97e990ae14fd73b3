package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
	"github.com/mamadbah2/babystock/internal/repository/memory"
	"github.com/mamadbah2/babystock/internal/service/ledger"
)

type fakeLookup struct {
	mu       sync.Mutex
	calls    int
	lookupFn func(barcode string) (*models.ProductInfo, error)
}

func (f *fakeLookup) Lookup(_ context.Context, barcode string) (*models.ProductInfo, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.lookupFn == nil {
		return &models.ProductInfo{Found: false}, nil
	}
	return f.lookupFn(barcode)
}

// racingLedger simulates another caller creating the barcode between the
// miss and the draft submission.
type racingLedger struct {
	*ledger.Service
}

func (l racingLedger) CreateItem(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error) {
	_, _ = l.Service.CreateItem(ctx, draft)
	return l.Service.CreateItem(ctx, draft)
}

func newLedger() *ledger.Service {
	return ledger.NewService(memory.NewStore(), nil)
}

func intPtr(v int) *int { return &v }

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]models.ScanMode{
		"":       models.ScanModeDetect,
		"detect": models.ScanModeDetect,
		"ADD":    models.ScanModeAddStock,
		" use ":  models.ScanModeUseItem,
	} {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseMode("sell")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolve_KnownBarcode(t *testing.T) {
	l := newLedger()
	item, err := l.CreateItem(context.Background(), models.ItemDraft{Barcode: "42", Name: "Diapers", CurrentStock: intPtr(3)})
	require.NoError(t, err)

	lookup := &fakeLookup{}
	r := NewResolver(l, lookup, nil)

	tests := []struct {
		mode models.ScanMode
		want models.ScanAction
	}{
		{models.ScanModeDetect, models.ActionPresentChoice},
		{models.ScanModeAddStock, models.ActionAddStock},
		{models.ScanModeUseItem, models.ActionUseItem},
	}
	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), "42", tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Action)
		require.NotNil(t, res.Item)
		assert.Equal(t, item.ID, res.Item.ID)
		assert.Nil(t, res.Draft)
	}

	assert.Zero(t, lookup.calls)

	after, _ := l.GetByID(context.Background(), item.ID)
	assert.Equal(t, 3, after.CurrentStock)
}

func TestResolve_UnknownBarcodePrefilled(t *testing.T) {
	lookup := &fakeLookup{lookupFn: func(string) (*models.ProductInfo, error) {
		return &models.ProductInfo{Found: true, ProductName: "Sensitive Wipes", Brand: "WaterWipes", Category: "Wet Wipes", Size: "60"}, nil
	}}
	r := NewResolver(newLedger(), lookup, nil)

	for _, mode := range []models.ScanMode{models.ScanModeDetect, models.ScanModeAddStock, models.ScanModeUseItem} {
		res, err := r.Resolve(context.Background(), "777", mode)
		require.NoError(t, err)
		assert.Equal(t, models.ActionCreateDraft, res.Action)
		require.NotNil(t, res.Draft)
		assert.Equal(t, "Sensitive Wipes", res.Draft.Name)
		assert.Equal(t, "WaterWipes", res.Draft.Brand)
		assert.Equal(t, models.CategoryWetWipes, res.Draft.Category)
		assert.Equal(t, "60", res.Draft.Size)
		assert.False(t, res.LookupFailed)
	}
}

func TestResolve_LookupFailureYieldsBlankDraft(t *testing.T) {
	lookup := &fakeLookup{lookupFn: func(string) (*models.ProductInfo, error) {
		return nil, errors.Join(models.ErrUpstreamLookup, context.DeadlineExceeded)
	}}
	r := NewResolver(newLedger(), lookup, nil)

	res, err := r.Resolve(context.Background(), "0001", models.ScanModeDetect)
	require.NoError(t, err)
	assert.Equal(t, models.ActionCreateDraft, res.Action)
	assert.True(t, res.LookupFailed)
	assert.Equal(t, "0001", res.Draft.Barcode)
	assert.Empty(t, res.Draft.Name)
	assert.Equal(t, models.CategoryOther, res.Draft.Category)
	assert.Equal(t, 0, *res.Draft.CurrentStock)
	assert.Equal(t, models.DefaultMinStockAlert, *res.Draft.MinStockAlert)
}

func TestResolve_BlankBarcode(t *testing.T) {
	r := NewResolver(newLedger(), nil, nil)
	_, err := r.Resolve(context.Background(), "   ", models.ScanModeDetect)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSubmitDraft_NewItemIsOutOfStock(t *testing.T) {
	l := newLedger()
	r := NewResolver(l, &fakeLookup{}, nil)
	ctx := context.Background()

	res, err := r.Resolve(ctx, "0001", models.ScanModeDetect)
	require.NoError(t, err)
	require.Equal(t, models.ActionCreateDraft, res.Action)

	draft := *res.Draft
	draft.Name = "Wipes"
	outcome, err := r.SubmitDraft(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, outcome.Item)
	assert.Nil(t, outcome.Resolution)

	items, err := l.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "0001", items[0].Barcode)
	assert.Equal(t, models.StockStatusOut, items[0].Status())
}

func TestSubmitDraft_ConflictBecomesAddStock(t *testing.T) {
	l := newLedger()
	r := NewResolver(racingLedger{l}, &fakeLookup{}, nil)

	outcome, err := r.SubmitDraft(context.Background(), models.ItemDraft{Barcode: "0002", Name: "Formula"})
	require.NoError(t, err)
	assert.Nil(t, outcome.Item)
	require.NotNil(t, outcome.Resolution)
	assert.Equal(t, models.ActionAddStock, outcome.Resolution.Action)
	assert.Equal(t, "0002", outcome.Resolution.Item.Barcode)
}

func TestSubmitDraft_ValidationErrorPassesThrough(t *testing.T) {
	r := NewResolver(newLedger(), nil, nil)
	_, err := r.SubmitDraft(context.Background(), models.ItemDraft{Barcode: "1"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestWatch_ResolvesEachCodeInOrder(t *testing.T) {
	l := newLedger()
	_, err := l.CreateItem(context.Background(), models.ItemDraft{Barcode: "known", Name: "Cream"})
	require.NoError(t, err)
	r := NewResolver(l, &fakeLookup{}, nil)

	codes := make(chan string, 3)
	codes <- "known"
	codes <- ""
	codes <- "new"
	close(codes)

	var results []WatchResult
	for res := range r.Watch(context.Background(), codes, models.ScanModeUseItem) {
		results = append(results, res)
	}

	require.Len(t, results, 3)
	assert.Equal(t, models.ActionUseItem, results[0].Resolution.Action)
	assert.ErrorIs(t, results[1].Err, models.ErrValidation)
	assert.Equal(t, models.ActionCreateDraft, results[2].Resolution.Action)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	r := NewResolver(newLedger(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	codes := make(chan string)
	out := r.Watch(ctx, codes, models.ScanModeDetect)
	cancel()

	_, open := <-out
	assert.False(t, open)
}
