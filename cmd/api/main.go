package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/fleetora/rental-api/internal/config"
	"github.com/fleetora/rental-api/internal/database"
	"github.com/fleetora/rental-api/internal/handlers"
	"github.com/fleetora/rental-api/internal/jobs"
	"github.com/fleetora/rental-api/internal/middleware"
	"github.com/fleetora/rental-api/internal/repository"
	"github.com/fleetora/rental-api/internal/services"
	"github.com/fleetora/rental-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Customers
		customers := v1.Group("/customers")
		{
			customers.GET("", h.Customer.Index)
			customers.POST("", h.Customer.Create)
			customers.GET("/:customer_id", h.Customer.Show)
			customers.PUT("/:customer_id", h.Customer.Update)
			customers.DELETE("/:customer_id", h.Customer.Delete)
			customers.GET("/:customer_id/leases", h.Customer.Leases)
		}

		// Vehicles
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", h.Vehicle.Index)
			vehicles.POST("", h.Vehicle.Create)
			vehicles.GET("/:vehicle_id", h.Vehicle.Show)
			vehicles.PUT("/:vehicle_id", h.Vehicle.Update)
			vehicles.DELETE("/:vehicle_id", h.Vehicle.Delete)
		}

		// Leases and their lifecycle transitions
		leases := v1.Group("/leases")
		{
			leases.GET("", h.Lease.Index)
			leases.POST("", h.Lease.Create)
			leases.GET("/:lease_id", h.Lease.Show)
			leases.PATCH("/:lease_id", h.Lease.Update)
			leases.DELETE("/:lease_id", h.Lease.Delete)

			leases.POST("/:lease_id/submit", h.Lease.Submit)
			leases.POST("/:lease_id/request_payment", h.Lease.RequestPayment)
			leases.POST("/:lease_id/request_deposit", h.Lease.RequestDeposit)
			leases.POST("/:lease_id/activate", h.Lease.Activate)
			leases.POST("/:lease_id/schedule", h.Lease.Schedule)
			leases.POST("/:lease_id/cancel", h.Lease.Cancel)
			leases.POST("/:lease_id/close", h.Lease.Close)
			leases.POST("/:lease_id/complete", h.Lease.Complete)
			leases.POST("/:lease_id/terminate", h.Lease.Terminate)

			leases.GET("/:lease_id/reconciliation", h.Lease.Reconciliation)
			leases.GET("/:lease_id/payments", h.Lease.Payments)
			leases.GET("/:lease_id/traffic_fines", h.Lease.Fines)
			leases.GET("/:lease_id/legal_cases", h.Lease.Cases)
		}

		// Payments
		payments := v1.Group("/payments")
		{
			payments.GET("", h.Payment.Index)
			payments.POST("", h.Payment.Create)
			payments.GET("/:payment_id", h.Payment.Show)
			payments.PATCH("/:payment_id", h.Payment.Update)
			payments.DELETE("/:payment_id", h.Payment.Delete)
			payments.POST("/:payment_id/complete", h.Payment.Complete)
			payments.POST("/:payment_id/cancel", h.Payment.Cancel)
		}

		// Traffic fines
		fines := v1.Group("/traffic_fines")
		{
			fines.GET("", h.TrafficFine.Index)
			fines.POST("", h.TrafficFine.Create)
			fines.GET("/:fine_id", h.TrafficFine.Show)
			fines.PATCH("/:fine_id/status", h.TrafficFine.UpdateStatus)
			fines.DELETE("/:fine_id", h.TrafficFine.Delete)
		}

		// Legal cases
		cases := v1.Group("/legal_cases")
		{
			cases.GET("", h.LegalCase.Index)
			cases.POST("", h.LegalCase.Create)
			cases.GET("/:case_id", h.LegalCase.Show)
			cases.PATCH("/:case_id/status", h.LegalCase.UpdateStatus)
			cases.DELETE("/:case_id", h.LegalCase.Delete)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Sweep active leases for overdue balances
	worker.ScheduleEvery(cfg.OverdueSweepInterval, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue leases...")
		return svcs.Payment.CheckOverdueLeases(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
