package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stwalsh4118/leasebook/internal/config"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the gorm handle used by the store and, for postgres, the
// pgx pool underneath it.
type Database struct {
	Pool *pgxpool.Pool
	Gorm *gorm.DB
}

// Open connects to the configured driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresPool(ctx, cfg, log)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig(log *logger.Logger) *gorm.Config {
	cfg := &gorm.Config{
		// Lets the store recognise constraint failures across drivers.
		TranslateError: true,
	}
	if log != nil {
		cfg.Logger = log.Gorm(gormlogger.Warn)
	} else {
		cfg.Logger = gormlogger.Discard
	}
	return cfg
}

// Migrate creates or updates the ledger schema.
func (db *Database) Migrate(ctx context.Context) error {
	if err := db.Gorm.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	if db.Gorm == nil {
		return fmt.Errorf("database is not open")
	}
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the gorm handle and the pgx pool.
func (db *Database) Close() {
	if db.Gorm != nil {
		if sqlDB, err := db.Gorm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the pgx pool, or nil for drivers without one.
func (db *Database) Stats() *pgxpool.Stat {
	if db.Pool == nil {
		return nil
	}
	return db.Pool.Stat()
}
