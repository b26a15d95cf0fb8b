package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stwalsh4118/leasebook/internal/config"
	"github.com/stwalsh4118/leasebook/internal/logger"
)

// Test configuration for local PostgreSQL
func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     getEnvOrDefault("DB_HOST", "host.docker.internal"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "leasebook"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  2,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestNewPostgresPool_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	db, err := NewPostgresPool(ctx, getTestConfig(), logger.New("test"))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	defer db.Close()

	if db.Pool == nil {
		t.Error("Expected Pool to be initialized")
	}
	if db.Gorm == nil {
		t.Error("Expected gorm handle to be initialized")
	}
	if db.Stats() == nil {
		t.Error("Expected stats to be available")
	}
}

func TestNewPostgresPool_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	if _, err := NewPostgresPool(ctx, cfg, nil); err == nil {
		t.Error("Expected error when connecting to invalid host")
	}
}

func TestNewPostgresPool_InvalidCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Password = "wrong-password"

	if _, err := NewPostgresPool(ctx, cfg, nil); err == nil {
		t.Error("Expected error when using invalid credentials")
	}
}

func TestPostgres_MigrateAndPing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	db, err := NewPostgresPool(ctx, getTestConfig(), nil)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPing_AfterClose(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	db, err := NewPostgresPool(ctx, getTestConfig(), nil)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	db.Close()

	if err := db.Ping(ctx); err == nil {
		t.Error("Expected ping to fail after pool is closed")
	}

	// Close multiple times should not panic
	db.Close()
}

func TestConnectionPool_MinMaxConns(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := getTestConfig()
	cfg.PoolMin = 3
	cfg.PoolMax = 8

	db, err := NewPostgresPool(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxConns() != 8 {
		t.Errorf("Expected MaxConns 8, got %d", stats.MaxConns())
	}
}
