package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-billing/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectAndMigrate opens the database designated by dsn and creates the
// schema if it does not exist yet. A postgres:// (or postgresql://) DSN
// selects the postgres driver; anything else is treated as a sqlite path.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	conn, err := connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Customer{},
		&models.Billing{},
		&models.BillingItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return conn, nil
}

func connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		var conn *gorm.DB
		var err error
		// Retry a few times so the app survives postgres starting up alongside it.
		for i := 0; i < 5; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				return conn, nil
			}
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	conn, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	// sqlite does not enforce foreign keys unless asked to.
	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return conn, nil
}
