package children

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
	"github.com/mamadbah2/babystock/internal/repository/memory"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAge(t *testing.T) {
	tests := []struct {
		dob, today string
		want       models.Age
	}{
		{"2023-01-15", "2024-01-15", models.Age{Years: 1}},
		{"2023-01-20", "2024-03-10", models.Age{Years: 1, Months: 1, Days: 19}},
		{"2023-12-31", "2024-03-01", models.Age{Months: 1, Days: 30}},
		{"2024-05-10", "2024-05-09", models.Age{}},
		{"2024-03-05", "2024-03-05", models.Age{}},
		{"2020-08-31", "2024-08-30", models.Age{Years: 3, Months: 11, Days: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.dob+"_"+tt.today, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(date(tt.dob), date(tt.today)))
		})
	}
}

func newTestService() *Service {
	svc := NewService(memory.NewStore(), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for name, draft := range map[string]models.ChildDraft{
		"blank name":   {Name: " ", DateOfBirth: "2024-01-01"},
		"missing dob":  {Name: "Ada"},
		"bad dob":      {Name: "Ada", DateOfBirth: "01/02/2024"},
		"future birth": {Name: "Ada", DateOfBirth: "2024-06-16"},
	} {
		_, err := svc.Create(ctx, draft)
		assert.ErrorIs(t, err, models.ErrValidation, name)
	}
}

func TestCRUD(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	weight := 7.2
	created, err := svc.Create(ctx, models.ChildDraft{Name: "Ada", DateOfBirth: "2023-12-01", Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, models.Age{Months: 6, Days: 14}, created.Age)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	dob := "2023-06-15"
	updated, err := svc.Update(ctx, created.ID, models.ChildUpdate{DateOfBirth: &dob})
	require.NoError(t, err)
	assert.Equal(t, models.Age{Years: 1}, updated.Age)
	require.NotNil(t, updated.Weight)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
