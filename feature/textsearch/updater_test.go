package textsearch

import (
	"context"
	"testing"
	"time"

	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestUpdater_AddAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	updater := NewUpdater(db, testRegistry(t), 2)
	ctx := context.Background()

	article := &models.Webpage{SystemEntity: entity(1, t1), DocumentType: TypeArticle, Name: "First"}
	form := &models.Form{SystemEntity: entity(1, t1), Name: "Contact"}
	page := &models.Webpage{SystemEntity: entity(2, t1), DocumentType: TypeTextPage, Name: "About"}

	require.NoError(t, updater.Add(ctx, []reconcile.Record{article, form, page}))
	assert.Equal(t, map[string]map[uint]time.Time{
		"Webpage": {1: t1, 2: t1},
		"Form":    {1: t1},
	}, indexRows(t, db))

	article.UpdatedOn = t2
	article.Name = "Renamed"
	require.NoError(t, updater.Update(ctx, article))

	var item models.TextSearchItem
	require.NoError(t, db.Where("entity_id = ? AND entity_type = ?", 1, "Webpage").First(&item).Error)
	assert.Equal(t, "Renamed", item.DisplayName)
	assert.True(t, item.EntityUpdatedOn.Equal(t2))
	assert.True(t, item.EntityCreatedOn.Equal(t1))

	var count int64
	require.NoError(t, db.Model(&models.TextSearchItem{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

// TestUpdater_AddIsIdempotent tests that replaying an add does not duplicate rows.
func TestUpdater_AddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	updater := NewUpdater(db, testRegistry(t), 0)
	records := []reconcile.Record{&models.Form{SystemEntity: entity(5, t1), Name: "Survey"}}

	require.NoError(t, updater.Add(context.Background(), records))
	require.NoError(t, updater.Add(context.Background(), records))

	var count int64
	require.NoError(t, db.Model(&models.TextSearchItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdater_Delete(t *testing.T) {
	db := setupTestDB(t)
	updater := NewUpdater(db, testRegistry(t), 2)

	seed(t, db,
		&models.TextSearchItem{EntityID: 1, EntityType: "Webpage"},
		&models.TextSearchItem{EntityID: 2, EntityType: "Webpage"},
		&models.TextSearchItem{EntityID: 3, EntityType: "Webpage"},
		&models.TextSearchItem{EntityID: 1, EntityType: "Form"},
		&models.TextSearchItem{EntityID: 2, EntityType: "Form"},
	)

	err := updater.Delete(context.Background(), []reconcile.IndexEntry{
		{EntityID: 1, EntityType: "Webpage"},
		{EntityID: 3, EntityType: "Webpage"},
		{EntityID: 2, EntityType: "Webpage"},
		{EntityID: 1, EntityType: "Form"},
		{EntityID: 99, EntityType: "Form"}, // already gone
	})
	require.NoError(t, err)

	rows := indexRows(t, db)
	assert.Empty(t, rows["Webpage"])
	assert.Len(t, rows["Form"], 1)
	assert.Contains(t, rows["Form"], uint(2))
}

// TestUpdater_UnregisteredType tests that records without a converter are rejected before writing.
func TestUpdater_UnregisteredType(t *testing.T) {
	db := setupTestDB(t)
	updater := NewUpdater(db, testRegistry(t), 0)

	layout := &models.Webpage{SystemEntity: entity(1, t1), DocumentType: "Layout"}
	err := updater.Add(context.Background(), []reconcile.Record{layout})
	assert.ErrorContains(t, err, "no converter registered for Layout")

	assert.Empty(t, indexRows(t, db))
}

// TestUpdater_DeleteBatchesSQL tests the statements issued against MySQL.
func TestUpdater_DeleteBatchesSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	updater := NewUpdater(db, testRegistry(t), 2)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `text_search_items` WHERE entity_type = \\? AND entity_id IN \\(\\?,\\?\\)").
		WithArgs("Webpage", 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `text_search_items` WHERE entity_type = \\? AND entity_id IN \\(\\?\\)").
		WithArgs("Webpage", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = updater.Delete(context.Background(), []reconcile.IndexEntry{
		{EntityID: 1, EntityType: "Webpage"},
		{EntityID: 2, EntityType: "Webpage"},
		{EntityID: 3, EntityType: "Webpage"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdater_UpsertSQL tests that updates are keyed by (entity_id, entity_type).
func TestUpdater_UpsertSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	updater := NewUpdater(db, testRegistry(t), 0)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `text_search_items` .* ON DUPLICATE KEY UPDATE `display_name`=VALUES\\(`display_name`\\)").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = updater.Update(context.Background(), &models.Form{SystemEntity: entity(4, t2), Name: "Contact"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
