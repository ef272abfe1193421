// Package testutil provides in-memory databases and configuration for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
)

// Config returns a configuration suitable for tests: no Redis, no log files, generous rate limits.
func Config(t *testing.T) config.AppConfig {
	t.Helper()
	return config.AppConfig{
		JWTSecret:          "test-secret",
		DBDriver:           "sqlite",
		GinMode:            "test",
		LogLevel:           "error",
		RateLimitPerMinute: 100000,
		AdminUsernames:     []string{"root"},
		PageSize:           10,
		FeedCacheSeconds:   20,
		MediaRoot:          t.TempDir(),
		MediaURL:           "/media/",
		MaxUploadMB:        1,
	}
}

// UseConfig installs Config(t) as the active configuration and returns it.
func UseConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := Config(t)
	config.Use(cfg)
	return config.Get()
}

// NewDB opens a private in-memory sqlite database with every model migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db, models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
