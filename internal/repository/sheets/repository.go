package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/babystock/internal/config"
	"github.com/mamadbah2/babystock/internal/domain/models"
)

const (
	snapshotRange = "Snapshots!A:E"
	categoryRange = "Categories!A:E"
	timeLayout    = "2006-01-02 15:04"
)

// Repository defines the spreadsheet operations the exporter relies on.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements Repository with the Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends values as a new row of sheetRange.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// Exporter appends dashboard history rows to a spreadsheet.
type Exporter struct {
	repo Repository
}

// NewExporter wraps repo.
func NewExporter(repo Repository) *Exporter {
	return &Exporter{repo: repo}
}

// ExportSnapshot appends one row per call to the Snapshots sheet and one row
// per category to the Categories sheet.
func (e *Exporter) ExportSnapshot(ctx context.Context, at time.Time, snapshot models.DashboardSnapshot, categories []models.CategoryBreakdown) error {
	stamp := at.Format(timeLayout)

	row := []interface{}{stamp, snapshot.TotalItems, snapshot.HealthyItems, snapshot.LowStockItems, snapshot.OutOfStockItems}
	if err := e.repo.WriteRow(ctx, snapshotRange, row); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	for _, group := range categories {
		row := []interface{}{stamp, string(group.Category), group.Count, group.TotalStock, group.LowStockCount}
		if err := e.repo.WriteRow(ctx, categoryRange, row); err != nil {
			return fmt.Errorf("export category %s: %w", group.Category, err)
		}
	}
	return nil
}

// LastSnapshotTime returns the timestamp of the most recent exported
// snapshot, or the zero time when the sheet is empty.
func (e *Exporter) LastSnapshotTime(ctx context.Context) (time.Time, error) {
	rows, err := e.repo.ReadRange(ctx, snapshotRange)
	if err != nil {
		return time.Time{}, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) == 0 {
			continue
		}
		if ts, err := time.Parse(timeLayout, fmt.Sprint(rows[i][0])); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, nil
}
