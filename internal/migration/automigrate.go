package migration

import (
	"errors"
	"fmt"

	authrepository "github.com/railzwaylabs/solarquote/internal/authorization/repository"
	catalogrepository "github.com/railzwaylabs/solarquote/internal/catalog/repository"
	templaterepository "github.com/railzwaylabs/solarquote/internal/packagetemplate/repository"
	"gorm.io/gorm"
)

// AutoMigrate creates the tables for drivers without embedded SQL migrations.
// Labor multipliers are seeded the same way RunMigrations seeds them.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"catalog", catalogrepository.AutoMigrate},
		{"package templates", templaterepository.AutoMigrate},
		{"api keys", authrepository.AutoMigrate},
	}
	for _, step := range steps {
		if err := step.run(db); err != nil {
			return fmt.Errorf("auto migrate %s: %w", step.name, err)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range multiplierSeeds {
			var existing int64
			match := map[string]any{"dimension": m.Dimension, "key": m.Key}
			if err := tx.Table("labor_multipliers").Where(match).Count(&existing).Error; err != nil {
				return fmt.Errorf("read labor multiplier %s/%s: %w", m.Dimension, m.Key, err)
			}
			if existing > 0 {
				continue
			}
			row := map[string]any{"id": m.ID, "dimension": m.Dimension, "key": m.Key, "factor": m.Factor}
			if err := tx.Table("labor_multipliers").Create(row).Error; err != nil {
				return fmt.Errorf("seed labor multiplier %s/%s: %w", m.Dimension, m.Key, err)
			}
		}
		return nil
	})
}
