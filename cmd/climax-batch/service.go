package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climax-batch/internal/adapter/climateapi"
	"github.com/couchcryptid/climax-batch/internal/adapter/sqlstore"
	"github.com/couchcryptid/climax-batch/internal/config"
	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/couchcryptid/climax-batch/internal/observability"
)

// climateService is the configured backend plus whatever it needs released
// once the batch is done.
type climateService struct {
	domain.ClimateService
	close func() error
}

func (s climateService) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func newClimateService(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (climateService, error) {
	switch cfg.ClimateBackend {
	case config.BackendMySQL:
		dsn := cfg.ClimateDSN
		if dsn == "" {
			dsn = sqlstore.MySQLDSN(cfg.ClimateDBHost, cfg.ClimateDBUser, cfg.ClimateDBPassword, cfg.ClimateDBName)
		}
		return openStore(ctx, sqlstore.DriverMySQL, dsn, logger)
	case config.BackendSQLite:
		return openStore(ctx, sqlstore.DriverSQLite, cfg.ClimateDSN, logger)
	case config.BackendHTTP:
		var svc domain.ClimateService = climateapi.NewClient(cfg.ClimateAPIURL, cfg.ClimateAPIToken, cfg.ClimateTimeout, logger)
		if cfg.ClimateCacheSize > 0 {
			svc = climateapi.NewCachedService(svc, cfg.ClimateCacheSize, metrics)
		}
		logger.Info("climate API backend", "url", cfg.ClimateAPIURL, "cache_size", cfg.ClimateCacheSize)
		return climateService{ClimateService: svc}, nil
	default:
		return climateService{}, fmt.Errorf("unknown climate backend %q", cfg.ClimateBackend)
	}
}

func openStore(ctx context.Context, driver, dsn string, logger *slog.Logger) (climateService, error) {
	store, err := sqlstore.Open(ctx, driver, dsn)
	if err != nil {
		return climateService{}, fmt.Errorf("connect climate database: %w", err)
	}
	logger.Info("climate database backend", "driver", driver)
	return climateService{ClimateService: store, close: store.Close}, nil
}
