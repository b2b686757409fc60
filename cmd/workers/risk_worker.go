package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/config"
	"procureflow/procurement-portal/procurement-portal-backend/internal/notifications"
	"procureflow/procurement-portal/procurement-portal-backend/internal/suppliers"
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

// RiskWorker periodically recomputes cached supplier risk levels so
// that metric drift (delivery rates, ratings) surfaces without waiting
// for the next read of each supplier.
type RiskWorker struct {
	service *suppliers.Service
	logger  *zap.Logger
}

// NewRiskWorker creates a new risk recompute worker
func NewRiskWorker(service *suppliers.Service, logger *zap.Logger) *RiskWorker {
	return &RiskWorker{service: service, logger: logger}
}

// Run executes one recompute pass over all suppliers
func (w *RiskWorker) Run(ctx context.Context) {
	changed, err := w.service.RecomputeAllRisk(ctx)
	if err != nil {
		w.logger.Error("Risk recompute pass failed", zap.Error(err))
		return
	}
	w.logger.Info("Risk recompute pass complete", zap.Int("changed", changed))
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	roles := workflows.DefaultRoleHierarchy()
	workflow, err := suppliers.NewWorkflow(roles)
	if err != nil {
		logger.Fatal("Failed to build supplier workflow", zap.Error(err))
	}
	scorer := suppliers.NewRiskScorer(suppliers.DefaultRiskConfig())

	// The worker writes risk levels only; status change events never
	// originate here, so a nil broadcaster service is not needed.
	notifier := notifications.NewService(nil, logger)

	repo := suppliers.NewPostgresRepository(db)
	service := suppliers.NewService(repo, workflow, suppliers.NewClassification(), scorer, notifier, logger)
	worker := NewRiskWorker(service, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Workers.RiskRecomputeSchedule, func() {
		worker.Run(ctx)
	})
	if err != nil {
		logger.Fatal("Invalid risk recompute schedule",
			zap.String("schedule", cfg.Workers.RiskRecomputeSchedule), zap.Error(err))
	}

	// Run once on startup, then on schedule
	worker.Run(ctx)
	scheduler.Start()
	logger.Info("Risk worker started", zap.String("schedule", cfg.Workers.RiskRecomputeSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Risk worker shutting down")
	cancel()
	<-scheduler.Stop().Done()
}
