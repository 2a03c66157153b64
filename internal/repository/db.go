package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hypelens/hypelens/internal/config"
	"github.com/hypelens/hypelens/internal/domain"
)

// InitDB opens the configured database and runs migrations for every model
// the service owns.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN() + "?_journal_mode=WAL&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("repository: unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("repository: access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if !cfg.AutoMigrate {
		return db, nil
	}

	if err := db.AutoMigrate(
		&domain.Trend{},
		&domain.Profile{},
		&domain.Action{},
		&domain.Bookmark{},
		&domain.Notification{},
		&domain.NotificationPreference{},
		&domain.ViralReel{},
	); err != nil {
		return nil, fmt.Errorf("repository: migrate: %w", err)
	}

	return db, nil
}
