package model

import "gorm.io/gorm"

// Migrate creates or updates every table of the page subsystem.
// Pages go first so the foreign keys of the dependent tables resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Page{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&PageVersion{},
		&PageLog{},
		&PageLabel{},
		&ProjectPage{},
		&TeamPage{},
		&PageFavorite{},
		&PageBlock{},
	)
}
