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
	"github.com/stwalsh4118/leasebook/internal/config"
	"github.com/stwalsh4118/leasebook/internal/database"
	"github.com/stwalsh4118/leasebook/internal/handlers"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/middleware"
	"github.com/stwalsh4118/leasebook/internal/repository"
	"github.com/stwalsh4118/leasebook/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting leasebook API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"driver":      cfg.Database.Driver,
	})

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"driver": cfg.Database.Driver,
			"host":   cfg.Database.Host,
			"name":   cfg.Database.Name,
		})
	}
	defer db.Close()

	fields := map[string]interface{}{"driver": cfg.Database.Driver}
	if stats := db.Stats(); stats != nil {
		fields["pool_max"] = stats.MaxConns()
		fields["pool_open"] = stats.TotalConns()
	}
	log.Info("Database connection established", fields)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Failed to migrate schema", err, nil)
		}
		log.Info("Schema migrated", nil)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Order matters: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env, cfg.Database.Driver)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	store := repository.NewStore(db)

	// Receipts need a document generator and an archiver; none ship with the
	// server, so settlements never produce one here.
	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Registry: handlers.NewRegistryHandler(services.NewRegistryService(store, log)),
		Leases: handlers.NewLeaseHandler(
			services.NewLeaseService(store, log),
			services.NewAmendmentService(store, log),
			services.NewScheduleService(store, log),
		),
		Tenants:  handlers.NewTenantHandler(services.NewTenantService(store, log)),
		Payments: handlers.NewPaymentHandler(services.NewPaymentService(store, nil, nil, log)),
		Invoices: handlers.NewInvoiceHandler(services.NewInvoiceService(store, log)),
		Stats:    handlers.NewStatsHandler(services.NewStatsService(store, log)),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
