package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tournevent/orders/internal/config"
	"github.com/tournevent/orders/internal/jobs"
	"github.com/tournevent/orders/internal/storage/postgres"
	"github.com/tournevent/orders/internal/telemetry"
	"github.com/tournevent/orders/pkg/carrier"
	"github.com/tournevent/orders/pkg/carrier/canadapost"
	"github.com/tournevent/orders/pkg/carrier/freightcom"
	"github.com/tournevent/orders/pkg/carrier/purolator"
)

func loadConfig() (*config.Config, error) {
	// A local .env is a development convenience, not a requirement.
	_ = godotenv.Load(".env")
	return config.Load()
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.ServiceName, cfg.LogLevel)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		// The global provider is a no-op until someone installs a real one.
		return otel.Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics()
}

// storage bundles everything built on the database connection.
type storage struct {
	uowFactory  *postgres.GormUnitOfWorkFactory
	warehouses  *postgres.GormWarehouseDirectory
	reliability *postgres.GormReliabilityStore
}

func initStorage(cfg *config.Config) (*storage, error) {
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}

	return &storage{
		uowFactory:  postgres.NewGormUnitOfWorkFactory(db),
		warehouses:  postgres.NewGormWarehouseDirectory(db),
		reliability: postgres.NewGormReliabilityStore(db),
	}, nil
}

func initRateRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *carrier.Registry {
	registry := carrier.NewRegistry(cfg.ProviderTimeout, logger)

	// Register enabled carriers
	if cfg.FreightcomEnabled {
		fc := freightcom.New(freightcom.Config{
			APIKey:  cfg.FreightcomAPIKey,
			BaseURL: cfg.FreightcomBaseURL,
			UseMock: cfg.FreightcomUseMock,
		}, logger, tracer)
		registry.Register(fc)
	}

	if cfg.CanadaPostEnabled {
		cp := canadapost.New(canadapost.Config{
			APIKey:    cfg.CanadaPostAPIKey,
			APISecret: cfg.CanadaPostAPISecret,
			AccountID: cfg.CanadaPostAccountID,
			BaseURL:   cfg.CanadaPostBaseURL,
			UseMock:   cfg.CanadaPostUseMock,
		}, logger, tracer)
		registry.Register(cp)
	}

	if cfg.PurolatorEnabled {
		puro := purolator.New(purolator.Config{
			Username:      cfg.PurolatorUsername,
			Password:      cfg.PurolatorPassword,
			AccountNumber: cfg.PurolatorAccountNumber,
			WSDLURL:       cfg.PurolatorWSDLURL,
			UseMock:       cfg.PurolatorUseMock,
		}, logger, tracer)
		registry.Register(puro)
	}

	return registry
}

func initJobs(cfg *config.Config, store *storage, logger *otelzap.Logger) *jobs.JobManager {
	return jobs.NewJobManager(store.reliability, cfg.ReliabilityRefreshSchedule, logger)
}
