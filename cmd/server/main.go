package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/config"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/repository/memory"
	"github.com/mamadbah2/ricemill/internal/repository/mongodb"
	"github.com/mamadbah2/ricemill/internal/repository/sheets"
	"github.com/mamadbah2/ricemill/internal/scheduler"
	"github.com/mamadbah2/ricemill/internal/server/handlers"
	"github.com/mamadbah2/ricemill/internal/server/router"
	dashboardsvc "github.com/mamadbah2/ricemill/internal/service/dashboard"
	ledgersvc "github.com/mamadbah2/ricemill/internal/service/ledger"
	lotsvc "github.com/mamadbah2/ricemill/internal/service/lots"
	notifysvc "github.com/mamadbah2/ricemill/internal/service/notify"
	"github.com/mamadbah2/ricemill/internal/service/populate"
	whatsappclient "github.com/mamadbah2/ricemill/pkg/clients/whatsapp"
	"github.com/mamadbah2/ricemill/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	var stores repository.Stores
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		baseLogger.Warn("using in-memory storage, records are lost on restart")
		stores = memory.NewStores()
	default:
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.Storage.MongoDB.URI, cfg.Storage.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		if err != nil {
			cancel()
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		if err := mongoRepo.EnsureIndexes(connectCtx); err != nil {
			cancel()
			baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
		}
		cancel()
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		stores = mongoRepo.Stores()
	}

	populator := populate.NewService(stores, baseLogger.Named("svc.populate"))
	lotService := lotsvc.NewService(stores.Lots, baseLogger.Named("svc.lots"))
	dashboardService := dashboardsvc.NewService(stores, loc, baseLogger.Named("svc.dashboard"))

	var ledger scheduler.LedgerSyncer
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = ledgersvc.NewService(sheetsRepo, stores.Lots, populator, baseLogger.Named("svc.ledger"))
	} else {
		baseLogger.Warn("google sheets not configured, ledger sync disabled")
	}

	var notifier scheduler.SummaryNotifier
	if cfg.WhatsApp.Enabled() {
		notifier = notifysvc.NewService(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.SummaryRecipient, baseLogger.Named("svc.notify"))
	} else {
		baseLogger.Warn("whatsapp not configured, daily summary disabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, dashboardService, ledger, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()

	api := handlers.NewAPI(stores, lotService, populator, dashboardService, baseLogger.Named("handlers"))
	engine := router.New(api, cfg.Server.CORSAllowedOrigins, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		baseLogger.Warn("scheduled job still running at shutdown")
	}
}
