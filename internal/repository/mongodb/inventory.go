package mongodb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// InsertItem stores item; the unique barcode index rejects duplicates.
func (s *Store) InsertItem(ctx context.Context, item *models.InventoryItem) error {
	seq, err := s.nextSeq(ctx, inventoryCollection)
	if err != nil {
		return err
	}
	item.Seq = seq

	if _, err := s.db.Collection(inventoryCollection).InsertOne(ctx, item); err != nil {
		return translate(err, "insert item "+item.Barcode)
	}
	return nil
}

// FindItemByID loads one item.
func (s *Store) FindItemByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.findItem(ctx, bson.M{"_id": id}, "item "+id)
}

// FindItemByBarcode loads the item carrying barcode.
func (s *Store) FindItemByBarcode(ctx context.Context, barcode string) (*models.InventoryItem, error) {
	return s.findItem(ctx, bson.M{"barcode": barcode}, "barcode "+barcode)
}

func (s *Store) findItem(ctx context.Context, filter bson.M, what string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.Collection(inventoryCollection).FindOne(ctx, filter).Decode(&item); err != nil {
		return nil, translate(err, what)
	}
	return &item, nil
}

// ListItems returns all items ordered by creation sequence.
func (s *Store) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := s.db.Collection(inventoryCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]models.InventoryItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// IncrementStock runs a single $inc update. The filter only matches while
// the result still fits in an int64.
func (s *Store) IncrementStock(ctx context.Context, id string, quantity int, at time.Time) (*models.InventoryItem, error) {
	filter := bson.M{"_id": id, "current_stock": bson.M{"$lte": int64(math.MaxInt64) - int64(quantity)}}
	update := bson.M{
		"$inc": bson.M{"current_stock": quantity},
		"$set": bson.M{"updated_at": at},
	}

	item, err := s.findAndUpdate(ctx, s.db.Collection(inventoryCollection), filter, update, "add stock to "+id)
	if errors.Is(err, models.ErrNotFound) {
		if _, findErr := s.FindItemByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("add %d to %s: %w", quantity, id, models.ErrInvalidQuantity)
	}
	return item, err
}

// ConsumeStock decrements the stock only when enough is on hand and inserts
// the usage event in the same transaction.
func (s *Store) ConsumeStock(ctx context.Context, id string, event *models.UsageEvent) (*models.InventoryItem, error) {
	seq, err := s.nextSeq(ctx, usageCollection)
	if err != nil {
		return nil, err
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		inventory := s.db.Collection(inventoryCollection)

		filter := bson.M{"_id": id, "current_stock": bson.M{"$gte": event.QuantityUsed}}
		update := bson.M{
			"$inc": bson.M{"current_stock": -event.QuantityUsed},
			"$max": bson.M{"last_used": event.Timestamp},
			"$set": bson.M{"updated_at": event.Timestamp},
		}

		var item models.InventoryItem
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := inventory.FindOneAndUpdate(sc, filter, update, opts).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, findErr := s.findItem(sc, bson.M{"_id": id}, "item "+id); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("consume %d of %s: %w", event.QuantityUsed, id, models.ErrInsufficientStock)
		}
		if err != nil {
			return nil, fmt.Errorf("consume stock of %s: %w", id, err)
		}

		record := *event
		record.ItemID = id
		record.Seq = seq
		if record.Barcode == "" {
			record.Barcode = item.Barcode
		}
		if _, err := s.db.Collection(usageCollection).InsertOne(sc, record); err != nil {
			return nil, fmt.Errorf("append usage event: %w", err)
		}

		*event = record
		return &item, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock consumed", zap.String("item_id", id), zap.Int("quantity", event.QuantityUsed))
	return result.(*models.InventoryItem), nil
}

// UpdateItem sets only the provided fields.
func (s *Store) UpdateItem(ctx context.Context, id string, update models.ItemUpdate, at time.Time) (*models.InventoryItem, error) {
	set := bson.M{"updated_at": at}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Size != nil {
		set["size"] = *update.Size
	}
	if update.UnitType != nil {
		set["unit_type"] = *update.UnitType
	}
	if update.CurrentStock != nil {
		set["current_stock"] = *update.CurrentStock
	}
	if update.MinStockAlert != nil {
		set["min_stock_alert"] = *update.MinStockAlert
	}

	return s.findAndUpdate(ctx, s.db.Collection(inventoryCollection), bson.M{"_id": id}, bson.M{"$set": set}, "update item "+id)
}

func (s *Store) findAndUpdate(ctx context.Context, coll *mongo.Collection, filter, update bson.M, what string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, translate(err, what)
	}
	return &item, nil
}

// RecentUsage returns up to limit events, newest first. A limit <= 0 yields
// no events; the driver would read SetLimit(0) as unlimited.
func (s *Store) RecentUsage(ctx context.Context, limit int) ([]models.UsageEvent, error) {
	if limit <= 0 {
		return []models.UsageEvent{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "seq", Value: -1}}).
		SetLimit(int64(limit))
	return s.findUsage(ctx, opts)
}

// ListUsage returns every event in append order.
func (s *Store) ListUsage(ctx context.Context) ([]models.UsageEvent, error) {
	return s.findUsage(ctx, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
}

func (s *Store) findUsage(ctx context.Context, opts *options.FindOptions) ([]models.UsageEvent, error) {
	cursor, err := s.db.Collection(usageCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}

	events := make([]models.UsageEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode usage: %w", err)
	}
	return events, nil
}
