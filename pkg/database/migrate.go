package database

import (
	"github.com/buslane/buslane/pkg/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and ensures the built-in
// accounts exist.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Agency{},
		&models.Route{},
		&models.Stop{},
		&models.Trip{},
		&models.StopTime{},
		&models.Favourite{},
	)
	if err != nil {
		return err
	}

	return models.SeedUsers(db)
}
