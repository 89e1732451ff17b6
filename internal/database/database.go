package database

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"eduportal/internal/domain"
)

// Connect opens the relational document store. postgres:// DSNs go to
// PostgreSQL, anything else is treated as a SQLite path (":memory:" in tests).
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		zap.L().Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	zap.L().Info("using SQLite", zap.String("dsn", dsn))

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// every new connection to :memory: is a fresh, empty database
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the tables for every stored type.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.AllModels()...)
}
