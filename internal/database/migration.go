package database

import (
	"fmt"

	"collection-ledger/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Line{},
		&models.Day{},
		&models.Customer{},
		&models.ArchivedCustomer{},
		&models.Transaction{},
		&models.Account{},
		&models.AccountEntry{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
