// Package memory provides a process-local Store used by tests and by
// STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

type itemEntry struct {
	mu   sync.Mutex
	item models.InventoryItem
}

// Store keeps inventory, usage and children in maps. The store-level lock
// guards the indexes; each item has its own lock so mutations of one item
// serialize while other items proceed in parallel.
type Store struct {
	mu        sync.RWMutex
	items     map[string]*itemEntry
	byBarcode map[string]string
	itemSeq   int64

	usageMu  sync.RWMutex
	usage    []models.UsageEvent
	usageSeq int64

	childMu  sync.RWMutex
	children map[string]models.Child
	childSeq int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]*itemEntry),
		byBarcode: make(map[string]string),
		children:  make(map[string]models.Child),
	}
}

// InsertItem stores a copy of item.
func (s *Store) InsertItem(_ context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byBarcode[item.Barcode]; exists {
		return fmt.Errorf("insert item %s: %w", item.Barcode, models.ErrConflict)
	}
	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("insert item id %s: %w", item.ID, models.ErrConflict)
	}

	s.itemSeq++
	item.Seq = s.itemSeq
	s.items[item.ID] = &itemEntry{item: *item}
	s.byBarcode[item.Barcode] = item.ID
	return nil
}

// FindItemByID returns a copy of the item.
func (s *Store) FindItemByID(_ context.Context, id string) (*models.InventoryItem, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	item := entry.item
	return &item, nil
}

// FindItemByBarcode returns a copy of the item carrying barcode.
func (s *Store) FindItemByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error) {
	s.mu.RLock()
	id, ok := s.byBarcode[barcode]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("barcode %s: %w", barcode, models.ErrNotFound)
	}
	return s.FindItemByID(ctx, id)
}

// ListItems returns copies of all items ordered by creation sequence.
func (s *Store) ListItems(_ context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	entries := make([]*itemEntry, 0, len(s.items))
	for _, entry := range s.items {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	items := make([]models.InventoryItem, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		items = append(items, entry.item)
		entry.mu.Unlock()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })
	return items, nil
}

// IncrementStock adds quantity to the item's stock. A quantity that would
// overflow the counter is rejected with ErrInvalidQuantity.
func (s *Store) IncrementStock(_ context.Context, id string, quantity int, at time.Time) (*models.InventoryItem, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if quantity > math.MaxInt-entry.item.CurrentStock {
		return nil, fmt.Errorf("add %d to %s (on hand %d): %w",
			quantity, id, entry.item.CurrentStock, models.ErrInvalidQuantity)
	}
	entry.item.CurrentStock += quantity
	entry.item.UpdatedAt = at
	item := entry.item
	return &item, nil
}

// ConsumeStock decrements stock and appends event while holding the item lock.
func (s *Store) ConsumeStock(_ context.Context, id string, event *models.UsageEvent) (*models.InventoryItem, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if event.QuantityUsed > entry.item.CurrentStock {
		return nil, fmt.Errorf("consume %d of %s (on hand %d): %w",
			event.QuantityUsed, id, entry.item.CurrentStock, models.ErrInsufficientStock)
	}

	entry.item.CurrentStock -= event.QuantityUsed
	if entry.item.LastUsed == nil || event.Timestamp.After(*entry.item.LastUsed) {
		ts := event.Timestamp
		entry.item.LastUsed = &ts
	}
	entry.item.UpdatedAt = event.Timestamp

	event.ItemID = id
	if event.Barcode == "" {
		event.Barcode = entry.item.Barcode
	}

	s.usageMu.Lock()
	s.usageSeq++
	event.Seq = s.usageSeq
	s.usage = append(s.usage, *event)
	s.usageMu.Unlock()

	item := entry.item
	return &item, nil
}

// UpdateItem applies a partial correction.
func (s *Store) UpdateItem(_ context.Context, id string, update models.ItemUpdate, at time.Time) (*models.InventoryItem, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	update.Apply(&entry.item)
	entry.item.UpdatedAt = at
	item := entry.item
	return &item, nil
}

// RecentUsage returns up to limit events, newest first. A limit <= 0 yields
// no events.
func (s *Store) RecentUsage(_ context.Context, limit int) ([]models.UsageEvent, error) {
	if limit <= 0 {
		return []models.UsageEvent{}, nil
	}
	s.usageMu.RLock()
	events := make([]models.UsageEvent, len(s.usage))
	copy(events, s.usage)
	s.usageMu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.After(events[j].Timestamp)
		}
		return events[i].Seq > events[j].Seq
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// ListUsage returns every event in append order.
func (s *Store) ListUsage(_ context.Context) ([]models.UsageEvent, error) {
	s.usageMu.RLock()
	defer s.usageMu.RUnlock()
	events := make([]models.UsageEvent, len(s.usage))
	copy(events, s.usage)
	return events, nil
}

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) entry(id string) (*itemEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	return entry, nil
}
