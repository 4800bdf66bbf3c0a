package textsearch

import (
	"testing"
	"time"

	"search-indexer/core/database"
	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	t1 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
)

// setupTestDB creates an in-memory database with content and index tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, MigrateContent(db))
	require.NoError(t, MigrateIndex(db))
	return db
}

func testRegistry(t *testing.T) *reconcile.Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func entity(id uint, updated time.Time) models.SystemEntity {
	return models.SystemEntity{ID: id, CreatedOn: t1, UpdatedOn: updated}
}

func seed(t *testing.T, db *gorm.DB, rows ...any) {
	t.Helper()
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
}

// indexRows returns the index as base type -> entity id -> entity_updated_on.
func indexRows(t *testing.T, db *gorm.DB) map[string]map[uint]time.Time {
	t.Helper()
	var items []models.TextSearchItem
	require.NoError(t, db.Find(&items).Error)

	out := make(map[string]map[uint]time.Time)
	for _, item := range items {
		if out[item.EntityType] == nil {
			out[item.EntityType] = make(map[uint]time.Time)
		}
		out[item.EntityType][item.EntityID] = item.EntityUpdatedOn.UTC()
	}
	return out
}
