package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tournevent/orders/internal/booking"
	"github.com/tournevent/orders/internal/server"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "orders",
	Short:   "Delivro Orders - carrier rate aggregation and booking service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orders API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	// Storage
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}

	// Rate providers
	registry := initRateRegistry(cfg, logger, tracer)

	// Booking application
	svc := booking.NewService(
		store.uowFactory,
		registry,
		store.warehouses,
		store.reliability,
		booking.CriteriaPolicy{
			Standard: cfg.StandardCriteria(),
			Express:  cfg.ExpressCriteria(),
		},
		logger,
		initMetrics(),
	)

	// Background jobs
	jobManager := initJobs(cfg, store, logger)
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	logger.Info("Starting Delivro Orders",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, svc, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if _, err := initStorage(cfg); err != nil {
		return err
	}

	logger.Info("Schema migrated", zap.String("database", cfg.DatabaseURL))
	return nil
}
