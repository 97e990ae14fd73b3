package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// InsertChild stores a copy of child.
func (s *Store) InsertChild(_ context.Context, child *models.Child) error {
	s.childMu.Lock()
	defer s.childMu.Unlock()

	if _, exists := s.children[child.ID]; exists {
		return fmt.Errorf("insert child %s: %w", child.ID, models.ErrConflict)
	}
	s.childSeq++
	child.Seq = s.childSeq
	s.children[child.ID] = *child
	return nil
}

// FindChild returns a copy of the child.
func (s *Store) FindChild(_ context.Context, id string) (*models.Child, error) {
	s.childMu.RLock()
	defer s.childMu.RUnlock()

	child, ok := s.children[id]
	if !ok {
		return nil, fmt.Errorf("child %s: %w", id, models.ErrNotFound)
	}
	return &child, nil
}

// ListChildren returns all children in creation order.
func (s *Store) ListChildren(_ context.Context) ([]models.Child, error) {
	s.childMu.RLock()
	children := make([]models.Child, 0, len(s.children))
	for _, child := range s.children {
		children = append(children, child)
	}
	s.childMu.RUnlock()

	sort.Slice(children, func(i, j int) bool { return children[i].Seq < children[j].Seq })
	return children, nil
}

// UpdateChild applies a partial update.
func (s *Store) UpdateChild(_ context.Context, id string, update models.ChildUpdate, at time.Time) (*models.Child, error) {
	s.childMu.Lock()
	defer s.childMu.Unlock()

	child, ok := s.children[id]
	if !ok {
		return nil, fmt.Errorf("child %s: %w", id, models.ErrNotFound)
	}
	update.Apply(&child)
	child.UpdatedAt = at
	s.children[id] = child
	return &child, nil
}

// DeleteChild removes the child.
func (s *Store) DeleteChild(_ context.Context, id string) error {
	s.childMu.Lock()
	defer s.childMu.Unlock()

	if _, ok := s.children[id]; !ok {
		return fmt.Errorf("child %s: %w", id, models.ErrNotFound)
	}
	delete(s.children, id)
	return nil
}
