package db

import (
	"errors"

	"github.com/diewo77/go-orders/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for the key-value table.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return err
	}
	if !db.Migrator().HasTable(&models.KVEntry{}) {
		return errors.New("missing table after migration: kv_entries")
	}
	return nil
}
