package textsearch

import (
	"context"
	"fmt"

	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch/models"

	"gorm.io/gorm"
)

// mediaFileHandle pairs a loaded file with its category row, which may be missing.
type mediaFileHandle struct {
	file     *models.MediaFile
	category *models.MediaCategory
}

// Store reads the CMS content tables and the index table.
// It implements reconcile.Source and reconcile.Index.
type Store struct {
	db       *gorm.DB
	registry *reconcile.Registry
}

// NewStore creates a store over db. The registry decides which webpage
// document types are live.
func NewStore(db *gorm.DB, registry *reconcile.Registry) *Store {
	return &Store{db: db, registry: registry}
}

// LoadAll implements reconcile.Source. Soft-deleted rows are included; Resolve filters them.
func (s *Store) LoadAll(ctx context.Context, base reconcile.BaseType) ([]reconcile.Handle, error) {
	db := s.db.WithContext(ctx)

	switch base {
	case BaseWebpage:
		var rows []models.Webpage
		if err := db.Order("id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to query webpages: %w", err)
		}
		return handles(rows), nil

	case BaseMediaCategory:
		var rows []models.MediaCategory
		if err := db.Order("id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to query media categories: %w", err)
		}
		return handles(rows), nil

	case BaseForm:
		var rows []models.Form
		if err := db.Order("id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to query forms: %w", err)
		}
		return handles(rows), nil

	case BaseMediaFile:
		var files []models.MediaFile
		if err := db.Order("id").Find(&files).Error; err != nil {
			return nil, fmt.Errorf("failed to query media files: %w", err)
		}
		var categories []models.MediaCategory
		if err := db.Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("failed to query media categories: %w", err)
		}
		byID := make(map[uint]*models.MediaCategory, len(categories))
		for i := range categories {
			byID[categories[i].ID] = &categories[i]
		}

		out := make([]reconcile.Handle, 0, len(files))
		for i := range files {
			out = append(out, mediaFileHandle{file: &files[i], category: byID[files[i].MediaCategoryID]})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s", reconcile.ErrUnknownBaseType, base)
	}
}

// handles wraps every row as a pointer handle.
func handles[T any](rows []T) []reconcile.Handle {
	out := make([]reconcile.Handle, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// Resolve implements reconcile.Source. Deleted rows, webpages of an unregistered
// document type and files without a live category are absent.
func (s *Store) Resolve(h reconcile.Handle) (reconcile.Record, bool) {
	switch v := h.(type) {
	case *models.Webpage:
		if v.IsDeleted {
			return nil, false
		}
		conv, ok := s.registry.ConverterFor(v.DocumentType)
		if !ok || conv.BaseType() != BaseWebpage {
			return nil, false
		}
		return v, true

	case mediaFileHandle:
		if v.file.IsDeleted || v.category == nil || v.category.IsDeleted {
			return nil, false
		}
		v.file.Category = v.category
		return v.file, true

	case *models.MediaCategory:
		return v, !v.IsDeleted

	case *models.Form:
		return v, !v.IsDeleted

	default:
		return nil, false
	}
}

// LoadEntries implements reconcile.Index.
func (s *Store) LoadEntries(ctx context.Context, typeName string) ([]reconcile.IndexEntry, error) {
	var rows []models.TextSearchItem
	err := s.db.WithContext(ctx).
		Select("id", "entity_id", "entity_type", "entity_updated_on").
		Where("entity_type = ?", typeName).
		Order("entity_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query index entries: %w", err)
	}

	entries := make([]reconcile.IndexEntry, len(rows))
	for i, row := range rows {
		entries[i] = reconcile.IndexEntry{
			ID:              row.ID,
			EntityID:        row.EntityID,
			EntityType:      row.EntityType,
			EntityUpdatedOn: row.EntityUpdatedOn,
		}
	}
	return entries, nil
}

// Entry returns the full index row for an entity, or gorm.ErrRecordNotFound.
func (s *Store) Entry(ctx context.Context, entityID uint, base reconcile.BaseType) (*models.TextSearchItem, error) {
	var item models.TextSearchItem
	err := s.db.WithContext(ctx).
		Where("entity_id = ? AND entity_type = ?", entityID, base.String()).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
