// Package children stores growth-tracking records and computes ages.
package children

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

// Service is the CRUD layer for child records.
type Service struct {
	repo   repository.ChildRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs the children service.
func NewService(repo repository.ChildRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Create validates and stores a new child.
func (s *Service) Create(ctx context.Context, draft models.ChildDraft) (*models.ChildView, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrValidation)
	}
	dob, err := s.parseBirthDate(draft.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	child := &models.Child{
		ID:          s.newID(),
		Name:        name,
		DateOfBirth: dob,
		Gender:      draft.Gender,
		Height:      draft.Height,
		Weight:      draft.Weight,
		Notes:       draft.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertChild(ctx, child); err != nil {
		return nil, fmt.Errorf("create child: %w", err)
	}

	s.logger.Info("child created", zap.String("child_id", child.ID))
	return s.view(*child), nil
}

// Get returns one child with its age.
func (s *Service) Get(ctx context.Context, id string) (*models.ChildView, error) {
	child, err := s.repo.FindChild(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*child), nil
}

// List returns all children with their ages.
func (s *Service) List(ctx context.Context) ([]models.ChildView, error) {
	children, err := s.repo.ListChildren(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.ChildView, 0, len(children))
	for _, child := range children {
		views = append(views, *s.view(child))
	}
	return views, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, update models.ChildUpdate) (*models.ChildView, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be blank: %w", models.ErrValidation)
		}
		update.Name = &name
	}
	if update.DateOfBirth != nil {
		dob, err := s.parseBirthDate(*update.DateOfBirth)
		if err != nil {
			return nil, err
		}
		update.DateOfBirth = &dob
	}

	child, err := s.repo.UpdateChild(ctx, id, update, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update child: %w", err)
	}
	return s.view(*child), nil
}

// Delete removes a child record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteChild(ctx, id); err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	s.logger.Info("child deleted", zap.String("child_id", id))
	return nil
}

func (s *Service) parseBirthDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("date_of_birth is required: %w", models.ErrValidation)
	}
	dob, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("date_of_birth %q: %w", raw, models.ErrValidation)
	}
	if dob.After(s.today()) {
		return "", fmt.Errorf("date_of_birth %q is in the future: %w", raw, models.ErrValidation)
	}
	return dob.Format(models.DateLayout), nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) view(child models.Child) *models.ChildView {
	view := &models.ChildView{Child: child}
	if dob, err := time.Parse(models.DateLayout, child.DateOfBirth); err == nil {
		view.Age = Age(dob, s.today())
	}
	return view
}

// Age returns the calendar age at today. Days borrow the length of the month
// before today's month (and earlier months if still short); months borrow a year.
func Age(dob, today time.Time) models.Age {
	years := today.Year() - dob.Year()
	months := int(today.Month()) - int(dob.Month())
	days := today.Day() - dob.Day()

	// Day 0 of a month is the last day of the month before it.
	for m := today.Month(); days < 0; m-- {
		months--
		days += time.Date(today.Year(), m, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return models.Age{}
	}
	return models.Age{Years: years, Months: months, Days: days}
}
