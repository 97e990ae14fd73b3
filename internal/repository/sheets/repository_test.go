package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

type fakeRepo struct {
	rows     map[string][][]interface{}
	writeErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string][][]interface{})}
}

func (f *fakeRepo) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.rows[sheetRange] = append(f.rows[sheetRange], values)
	return nil
}

func (f *fakeRepo) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	return f.rows[sheetRange], nil
}

func TestExportSnapshot(t *testing.T) {
	repo := newFakeRepo()
	exporter := NewExporter(repo)
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	err := exporter.ExportSnapshot(context.Background(), at,
		models.DashboardSnapshot{TotalItems: 3, HealthyItems: 1, LowStockItems: 1, OutOfStockItems: 1},
		[]models.CategoryBreakdown{
			{Category: models.CategoryDiapers, Count: 2, TotalStock: 12, LowStockCount: 1},
			{Category: models.CategoryOther, Count: 1},
		})
	require.NoError(t, err)

	require.Len(t, repo.rows[snapshotRange], 1)
	assert.Equal(t, []interface{}{"2024-05-01 20:00", 3, 1, 1, 1}, repo.rows[snapshotRange][0])
	require.Len(t, repo.rows[categoryRange], 2)
	assert.Equal(t, "Diapers", repo.rows[categoryRange][0][1])

	last, err := exporter.LastSnapshotTime(context.Background())
	require.NoError(t, err)
	assert.True(t, last.Equal(at))
}

func TestExportSnapshot_WriteError(t *testing.T) {
	repo := newFakeRepo()
	repo.writeErr = errors.New("quota exceeded")

	err := NewExporter(repo).ExportSnapshot(context.Background(), time.Now(), models.DashboardSnapshot{}, nil)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestLastSnapshotTime_Empty(t *testing.T) {
	last, err := NewExporter(newFakeRepo()).LastSnapshotTime(context.Background())
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
