package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/config"
	"github.com/mamadbah2/babystock/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the figures the daily job distributes.
type Reporter interface {
	Stats(ctx context.Context) (models.DashboardSnapshot, error)
	Categories(ctx context.Context) ([]models.CategoryBreakdown, error)
	Digest(ctx context.Context) (string, error)
}

// Notifier delivers the digest.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// SnapshotExporter keeps a history of dashboard snapshots.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, at time.Time, snapshot models.DashboardSnapshot, categories []models.CategoryBreakdown) error
	LastSnapshotTime(ctx context.Context) (time.Time, error)
}

// Scheduler runs the daily restock report.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	location  *time.Location
	reporter  Reporter
	notifier  Notifier
	recipient string
	exporter  SnapshotExporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler. notifier and exporter are optional.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, notifier Notifier, recipient string, exporter SnapshotExporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		location:  loc,
		reporter:  reporter,
		notifier:  notifier,
		recipient: recipient,
		exporter:  exporter,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runJob); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

// RunOnce sends the digest and exports the snapshot. Both steps run even if
// one fails; the first error is returned.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var firstErr error

	if s.notifier != nil && s.recipient != "" {
		if err := s.sendDigest(ctx); err != nil {
			s.logger.Error("failed to send digest", zap.Error(err))
			firstErr = err
		} else {
			s.logger.Info("digest sent", zap.String("to", s.recipient))
		}
	}

	if s.exporter != nil {
		if err := s.exportSnapshot(ctx); err != nil {
			s.logger.Error("failed to export snapshot", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *Scheduler) sendDigest(ctx context.Context) error {
	digest, err := s.reporter.Digest(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	return s.notifier.SendOutbound(ctx, models.OutboundMessageRequest{To: s.recipient, Message: digest})
}

func (s *Scheduler) exportSnapshot(ctx context.Context) error {
	now := s.now().In(s.location)

	last, err := s.exporter.LastSnapshotTime(ctx)
	if err != nil {
		s.logger.Warn("could not read last snapshot time", zap.Error(err))
	} else if sameDay(last, now) {
		s.logger.Info("snapshot already exported today", zap.Time("last", last))
		return nil
	}

	stats, err := s.reporter.Stats(ctx)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}
	categories, err := s.reporter.Categories(ctx)
	if err != nil {
		return fmt.Errorf("compute categories: %w", err)
	}
	return s.exporter.ExportSnapshot(ctx, now, stats, categories)
}

// sameDay compares calendar dates; a is stored without a zone.
func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
