package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and returns a GORM handle.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all tables this service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderDTO{},
		&orderItemDTO{},
		&selectedQuoteDTO{},
		&carrierAssignmentDTO{},
		&warehouseDTO{},
		&carrierReliabilityDTO{},
	)
}
