package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/irurudev/nexus-pos/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs the schema
// migration. The sequences table must exist before the first sale commits;
// everything is created through AutoMigrate so tests and deployments share
// one schema path.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates or updates all tables. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Sequence{},
		&model.Category{},
		&model.Item{},
		&model.Customer{},
		&model.User{},
		&model.Sale{},
		&model.SaleLineItem{},
		&model.StockMovement{},
		&model.AuditLog{},
	)
}
