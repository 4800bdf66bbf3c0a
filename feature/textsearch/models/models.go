package models

import "time"

// SystemEntity holds the columns shared by every CMS entity.
type SystemEntity struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedOn time.Time `gorm:"column:created_on;not null" json:"created_on"`
	UpdatedOn time.Time `gorm:"column:updated_on;not null" json:"updated_on"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
}

// EntityID returns the primary key.
func (e SystemEntity) EntityID() uint { return e.ID }

// LastModified returns the timestamp compared against the index.
func (e SystemEntity) LastModified() time.Time { return e.UpdatedOn }

// Created returns the creation timestamp.
func (e SystemEntity) Created() time.Time { return e.CreatedOn }

// Webpage is a row of the single-table webpage hierarchy.
// DocumentType names the concrete page type.
type Webpage struct {
	SystemEntity
	DocumentType string `gorm:"column:document_type;type:varchar(100);not null;index" json:"document_type"`
	Name         string `gorm:"column:name;type:varchar(255)" json:"name"`
	UrlSegment   string `gorm:"column:url_segment;type:varchar(255)" json:"url_segment"`
	Abstract     string `gorm:"column:abstract;type:text" json:"abstract"`
	BodyContent  string `gorm:"column:body_content;type:text" json:"body_content"`
	MetaKeywords string `gorm:"column:meta_keywords;type:varchar(500)" json:"meta_keywords"`
}

func (Webpage) TableName() string {
	return "webpages"
}

// EntityType returns the concrete page type.
func (w Webpage) EntityType() string { return w.DocumentType }

// MediaCategory groups media files.
type MediaCategory struct {
	SystemEntity
	Name        string `gorm:"column:name;type:varchar(255)" json:"name"`
	UrlSegment  string `gorm:"column:url_segment;type:varchar(255)" json:"url_segment"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (MediaCategory) TableName() string {
	return "media_categories"
}

func (MediaCategory) EntityType() string { return "MediaCategory" }

// MediaFile is an uploaded file. Category is filled when the file is resolved.
type MediaFile struct {
	SystemEntity
	FileName        string         `gorm:"column:file_name;type:varchar(255)" json:"file_name"`
	FileExtension   string         `gorm:"column:file_extension;type:varchar(20)" json:"file_extension"`
	Title           string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	MediaCategoryID uint           `gorm:"column:media_category_id;index" json:"media_category_id"`
	Category        *MediaCategory `gorm:"-" json:"-"`
}

func (MediaFile) TableName() string {
	return "media_files"
}

func (MediaFile) EntityType() string { return "MediaFile" }

// Form is a user-built form.
type Form struct {
	SystemEntity
	Name             string `gorm:"column:name;type:varchar(255)" json:"name"`
	SubmitButtonText string `gorm:"column:submit_button_text;type:varchar(255)" json:"submit_button_text"`
	FormMessage      string `gorm:"column:form_message;type:text" json:"form_message"`
}

func (Form) TableName() string {
	return "forms"
}

func (Form) EntityType() string { return "Form" }

// TextSearchItem is one denormalized index row.
// EntityType holds the base type name; (EntityID, EntityType) is unique.
// Entity timestamps keep microseconds so they compare equal to the source rows.
type TextSearchItem struct {
	ID              uint      `gorm:"primaryKey;column:id" json:"id"`
	EntityID        uint      `gorm:"column:entity_id;not null;uniqueIndex:idx_text_search_entity,priority:1" json:"entity_id"`
	EntityType      string    `gorm:"column:entity_type;type:varchar(100);not null;uniqueIndex:idx_text_search_entity,priority:2" json:"entity_type"`
	DisplayName     string    `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	PrimaryText     string    `gorm:"column:primary_text;type:text" json:"primary_text"`
	SecondaryText   string    `gorm:"column:secondary_text;type:text" json:"secondary_text"`
	EntityCreatedOn time.Time `gorm:"column:entity_created_on;type:datetime(6)" json:"entity_created_on"`
	EntityUpdatedOn time.Time `gorm:"column:entity_updated_on;type:datetime(6)" json:"entity_updated_on"`
	CreatedOn       time.Time `gorm:"column:created_on" json:"created_on"`
	UpdatedOn       time.Time `gorm:"column:updated_on" json:"updated_on"`
}

func (TextSearchItem) TableName() string {
	return "text_search_items"
}

// TextSearchColumns lists the columns the index store reads and writes.
var TextSearchColumns = []string{
	"id", "entity_id", "entity_type", "display_name", "primary_text", "secondary_text",
	"entity_created_on", "entity_updated_on", "created_on", "updated_on",
}

// ContentModels returns the CMS tables read by the indexer.
func ContentModels() []any {
	return []any{&Webpage{}, &MediaCategory{}, &MediaFile{}, &Form{}}
}
