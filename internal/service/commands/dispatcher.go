package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const defaultUsageDays = 7

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	Stats(ctx context.Context) (models.DashboardSnapshot, error)
	Digest(ctx context.Context) (string, error)
	UsageDigest(ctx context.Context, days int) (string, error)
}

// HelpReply lists the supported chat commands.
var HelpReply = models.Reply{
	Title:   "Baby Stock",
	Message: "Commands: stock (dashboard), low (items to restock), usage [days] (consumption), help.",
}

// Service answers chat commands from the dashboard figures. It never mutates stock.
type Service struct {
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reporting: reporting, logger: logger}
}

// HandleCommand builds the reply for cmd.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (models.Reply, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStock:
		stats, err := s.reporting.Stats(ctx)
		if err != nil {
			return models.Reply{}, err
		}
		return models.Reply{
			Title: "Stock",
			Message: fmt.Sprintf("%d items: %d healthy, %d low, %d out of stock.",
				stats.TotalItems, stats.HealthyItems, stats.LowStockItems, stats.OutOfStockItems),
		}, nil
	case models.CommandLow:
		digest, err := s.reporting.Digest(ctx)
		if err != nil {
			return models.Reply{}, err
		}
		return models.Reply{Title: "Restock", Message: digest}, nil
	case models.CommandUsage:
		days, err := parseDays(cmd.Args)
		if err != nil {
			return models.Reply{}, err
		}
		digest, err := s.reporting.UsageDigest(ctx, days)
		if err != nil {
			return models.Reply{}, err
		}
		return models.Reply{Title: "Usage", Message: digest}, nil
	case models.CommandHelp:
		return HelpReply, nil
	default:
		return models.Reply{}, ErrUnsupportedCommand
	}
}

func parseDays(args []string) (int, error) {
	if len(args) == 0 {
		return defaultUsageDays, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("%w: days must be a positive number, got %q", ErrInvalidArguments, args[0])
	}
	return days, nil
}
