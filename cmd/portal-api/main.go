package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/auth"
	"procureflow/procurement-portal/procurement-portal-backend/internal/config"
	"procureflow/procurement-portal/procurement-portal-backend/internal/notifications"
	ws "procureflow/procurement-portal/procurement-portal-backend/internal/notifications/websocket"
	"procureflow/procurement-portal/procurement-portal-backend/internal/purchaseorders"
	"procureflow/procurement-portal/procurement-portal-backend/internal/reports"
	"procureflow/procurement-portal/procurement-portal-backend/internal/rfqs"
	"procureflow/procurement-portal/procurement-portal-backend/internal/settings"
	"procureflow/procurement-portal/procurement-portal-backend/internal/suppliers"
	"procureflow/procurement-portal/procurement-portal-backend/pkg/workflows"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	roles := workflows.DefaultRoleHierarchy()

	// Workflows
	approvalLimits := purchaseorders.DefaultApprovalLimits()
	if len(cfg.Workflow.ApprovalLimits) > 0 {
		approvalLimits.Limits = map[workflows.Role]float64{}
		for role, limit := range cfg.Workflow.ApprovalLimits {
			approvalLimits.Limits[workflows.Role(role)] = limit
		}
	}
	poWorkflow, err := purchaseorders.NewWorkflow(roles, approvalLimits)
	if err != nil {
		logger.Fatal("Failed to build purchase order workflow", zap.Error(err))
	}
	supplierWorkflow, err := suppliers.NewWorkflow(roles)
	if err != nil {
		logger.Fatal("Failed to build supplier workflow", zap.Error(err))
	}
	rfqWorkflow, err := rfqs.NewWorkflow(roles)
	if err != nil {
		logger.Fatal("Failed to build RFQ workflow", zap.Error(err))
	}
	scorer := suppliers.NewRiskScorer(suppliers.DefaultRiskConfig())

	// Notifications
	wsManager := ws.NewManager(logger)
	defer wsManager.Close()
	notifier := notifications.NewService(wsManager, logger)

	// Auth
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, cfg.Security.JWTSecret, cfg.Security.TokenTTL, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Purchase orders
	poRepo := purchaseorders.NewPostgresRepository(db)
	poService := purchaseorders.NewService(poRepo, poWorkflow, purchaseorders.NewClassification(), notifier, logger)
	poHandler := purchaseorders.NewHandler(poService, logger)

	// Suppliers
	supplierRepo := suppliers.NewPostgresRepository(db)
	supplierService := suppliers.NewService(supplierRepo, supplierWorkflow, suppliers.NewClassification(), scorer, notifier, logger)
	supplierHandler := suppliers.NewHandler(supplierService, logger)

	// RFQs
	rfqRepo := rfqs.NewPostgresRepository(db)
	rfqService := rfqs.NewService(rfqRepo, rfqWorkflow, rfqs.NewClassification(), notifier, logger)
	rfqHandler := rfqs.NewHandler(rfqService, logger)

	// Reports
	reportsRepo := reports.NewPostgresRepository(db)
	reportsService := reports.NewService(reportsRepo, purchaseorders.NewClassification(), scorer, logger)
	reportsHandler := reports.NewHandler(reportsService, logger)

	// Settings
	settingsRepo := settings.NewPostgresRepository(db)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(settingsService, logger)

	// Setup Router
	if os.Getenv("APP_ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	authHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(auth.Middleware(authService))
	{
		poHandler.RegisterRoutes(protected)
		supplierHandler.RegisterRoutes(protected)
		rfqHandler.RegisterRoutes(protected)
		reportsHandler.RegisterRoutes(protected)
		settingsHandler.RegisterRoutes(protected)
	}

	// WebSocket endpoint for realtime status change notifications.
	// Browsers cannot set headers on websocket upgrades, so the token
	// rides in the query string.
	router.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		actor, err := authService.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if _, err := wsManager.HandleConnection(c.Writer, c.Request, actor.ID.String()); err != nil {
			logger.Warn("WebSocket upgrade failed", zap.Error(err))
		}
	})

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
