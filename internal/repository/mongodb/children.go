package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// InsertChild stores child.
func (s *Store) InsertChild(ctx context.Context, child *models.Child) error {
	seq, err := s.nextSeq(ctx, childrenCollection)
	if err != nil {
		return err
	}
	child.Seq = seq

	if _, err := s.db.Collection(childrenCollection).InsertOne(ctx, child); err != nil {
		return translate(err, "insert child "+child.ID)
	}
	return nil
}

// FindChild loads one child.
func (s *Store) FindChild(ctx context.Context, id string) (*models.Child, error) {
	var child models.Child
	if err := s.db.Collection(childrenCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&child); err != nil {
		return nil, translate(err, "child "+id)
	}
	return &child, nil
}

// ListChildren returns all children in creation order.
func (s *Store) ListChildren(ctx context.Context) ([]models.Child, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := s.db.Collection(childrenCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	children := make([]models.Child, 0)
	if err := cursor.All(ctx, &children); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return children, nil
}

// UpdateChild sets only the provided fields.
func (s *Store) UpdateChild(ctx context.Context, id string, update models.ChildUpdate, at time.Time) (*models.Child, error) {
	set := bson.M{"updated_at": at}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.DateOfBirth != nil {
		set["date_of_birth"] = *update.DateOfBirth
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.Height != nil {
		set["height"] = *update.Height
	}
	if update.Weight != nil {
		set["weight"] = *update.Weight
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	var child models.Child
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.db.Collection(childrenCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&child)
	if err != nil {
		return nil, translate(err, "update child "+id)
	}
	return &child, nil
}

// DeleteChild removes the child.
func (s *Store) DeleteChild(ctx context.Context, id string) error {
	res, err := s.db.Collection(childrenCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete child %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("child %s: %w", id, models.ErrNotFound)
	}
	return nil
}
