package main

import (
	"gorm.io/gorm"

	"github.com/userdesk/api/internal/models"
)

// registerModels returns all models that need migration.
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
	}
}

// runMigrations executes all database migrations.
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't express.
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		ensureEmailUniqueIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// ensureEmailUniqueIndex backstops the uniqueIndex tag on existing databases
// that were created before the constraint was introduced.
func ensureEmailUniqueIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
		ON users(email)
	`).Error
}
