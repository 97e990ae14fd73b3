package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/config"
	"github.com/mamadbah2/babystock/internal/repository"
	"github.com/mamadbah2/babystock/internal/repository/memory"
	"github.com/mamadbah2/babystock/internal/repository/mongodb"
	"github.com/mamadbah2/babystock/internal/repository/sheets"
	"github.com/mamadbah2/babystock/internal/scheduler"
	"github.com/mamadbah2/babystock/internal/server/handlers"
	"github.com/mamadbah2/babystock/internal/server/router"
	childrensvc "github.com/mamadbah2/babystock/internal/service/children"
	commandsvc "github.com/mamadbah2/babystock/internal/service/commands"
	ledgersvc "github.com/mamadbah2/babystock/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/babystock/internal/service/reporting"
	"github.com/mamadbah2/babystock/internal/service/scanner"
	whatsappsvc "github.com/mamadbah2/babystock/internal/service/whatsapp"
	"github.com/mamadbah2/babystock/pkg/clients/openfoodfacts"
	whatsappclient "github.com/mamadbah2/babystock/pkg/clients/whatsapp"
	"github.com/mamadbah2/babystock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	lookup := openfoodfacts.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout)

	ledgerSvc := ledgersvc.NewService(store, logger.Named(baseLogger, "svc.ledger"))
	resolver := scanner.NewResolver(ledgerSvc, lookup, logger.Named(baseLogger, "svc.scanner"))
	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))
	childrenSvc := childrensvc.NewService(store, logger.Named(baseLogger, "svc.children"))

	h := router.Handlers{
		Inventory: handlers.NewInventoryHandler(ledgerSvc, logger.Named(baseLogger, "handlers.inventory")),
		Scan:      handlers.NewScanHandler(resolver, logger.Named(baseLogger, "handlers.scan")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, logger.Named(baseLogger, "handlers.dashboard")),
		Products:  handlers.NewProductHandler(lookup, logger.Named(baseLogger, "handlers.products")),
		Children:  handlers.NewChildHandler(childrenSvc, logger.Named(baseLogger, "handlers.children")),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(reportingSvc, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))
		h.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		notifier = messagingSvc
		baseLogger.Info("whatsapp channel enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, chat commands and digests disabled")
	}

	var exporter scheduler.SnapshotExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewExporter(sheetsRepo)
		baseLogger.Info("sheets snapshot export enabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifier, cfg.WhatsApp.AlertRecipient, exporter, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(h, cfg.Server.CORSOrigins, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongodb.NewStore(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
	default:
		baseLogger.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}
}
