package textsearch

import (
	"fmt"

	"search-indexer/core/database"
	"search-indexer/feature/textsearch/models"

	"gorm.io/gorm"
)

// MigrateIndex creates or updates the text_search_items table.
func MigrateIndex(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.TextSearchItem{}); err != nil {
		return fmt.Errorf("failed to migrate text_search_items: %w", err)
	}
	return nil
}

// MigrateContent creates the CMS content tables. Only used for local sqlite
// databases; in production the CMS owns these tables.
func MigrateContent(db *gorm.DB) error {
	if err := db.AutoMigrate(models.ContentModels()...); err != nil {
		return fmt.Errorf("failed to migrate content tables: %w", err)
	}
	return nil
}

// VerifySchema checks that the index table has every column the store uses.
func VerifySchema(db *gorm.DB) error {
	missing, err := database.MissingColumns(db, models.TextSearchItem{}.TableName(), models.TextSearchColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("text_search_items is missing columns %v", missing)
	}
	return nil
}
