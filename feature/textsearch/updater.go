package textsearch

import (
	"context"
	"fmt"
	"time"

	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is the number of rows per bulk statement.
const DefaultBatchSize = 500

// upsertColumns are overwritten when an entry already exists.
var upsertColumns = []string{
	"display_name", "primary_text", "secondary_text",
	"entity_created_on", "entity_updated_on", "updated_on",
}

// createdRecord is implemented by records that expose their creation time.
type createdRecord interface {
	Created() time.Time
}

// Updater writes index rows. Every write is keyed by (entity_id, entity_type),
// so replaying a partially applied diff is safe.
type Updater struct {
	db        *gorm.DB
	registry  *reconcile.Registry
	batchSize int
	clock     func() time.Time
}

// NewUpdater creates an updater. A batchSize <= 0 uses DefaultBatchSize.
func NewUpdater(db *gorm.DB, registry *reconcile.Registry, batchSize int) *Updater {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Updater{db: db, registry: registry, batchSize: batchSize, clock: time.Now}
}

// Add implements reconcile.Updater.
func (u *Updater) Add(ctx context.Context, records []reconcile.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := u.clock()
	items := make([]models.TextSearchItem, 0, len(records))
	for _, r := range records {
		item, err := u.build(r, now)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	return u.upsert(u.db.WithContext(ctx)).CreateInBatches(&items, u.batchSize).Error
}

// Update implements reconcile.Updater.
func (u *Updater) Update(ctx context.Context, record reconcile.Record) error {
	item, err := u.build(record, u.clock())
	if err != nil {
		return err
	}
	return u.upsert(u.db.WithContext(ctx)).Create(&item).Error
}

// Delete implements reconcile.Updater. Entries are removed by natural key.
func (u *Updater) Delete(ctx context.Context, entries []reconcile.IndexEntry) error {
	byType := make(map[string][]uint)
	var order []string
	for _, e := range entries {
		if _, ok := byType[e.EntityType]; !ok {
			order = append(order, e.EntityType)
		}
		byType[e.EntityType] = append(byType[e.EntityType], e.EntityID)
	}

	db := u.db.WithContext(ctx)
	for _, typeName := range order {
		ids := byType[typeName]
		for start := 0; start < len(ids); start += u.batchSize {
			end := min(start+u.batchSize, len(ids))
			err := db.Where("entity_type = ? AND entity_id IN ?", typeName, ids[start:end]).
				Delete(&models.TextSearchItem{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete %s entries: %w", typeName, err)
			}
		}
	}
	return nil
}

func (u *Updater) upsert(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_id"}, {Name: "entity_type"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	})
}

// build converts a record into its index row.
func (u *Updater) build(r reconcile.Record, now time.Time) (models.TextSearchItem, error) {
	conv, ok := u.registry.ConverterFor(r.EntityType())
	if !ok {
		return models.TextSearchItem{}, fmt.Errorf("no converter registered for %s", r.EntityType())
	}

	doc, err := conv.Convert(r)
	if err != nil {
		return models.TextSearchItem{}, fmt.Errorf("failed to convert %s %d: %w", r.EntityType(), r.EntityID(), err)
	}

	item := models.TextSearchItem{
		EntityID:        r.EntityID(),
		EntityType:      conv.BaseType().String(),
		DisplayName:     doc.DisplayName,
		PrimaryText:     doc.PrimaryText,
		SecondaryText:   doc.SecondaryText,
		EntityUpdatedOn: r.LastModified(),
		CreatedOn:       now,
		UpdatedOn:       now,
	}
	if c, ok := r.(createdRecord); ok {
		item.EntityCreatedOn = c.Created()
	}
	return item, nil
}
