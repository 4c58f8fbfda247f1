package database

import (
	"fmt"

	"alboran/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.HousingRecord{}, &models.ModelRun{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Bounding-box lookups for the map layers
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_housing_records_coordinates
		ON housing_records(latitude, longitude);
	`).Error; err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}

	return nil
}
