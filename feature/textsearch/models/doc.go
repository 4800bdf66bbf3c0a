// Package models defines the GORM models of the CMS content tables and of the
// text search index table.
//
// Content models embed SystemEntity and satisfy reconcile.Record through its
// EntityID and LastModified methods plus their own EntityType. Soft-deleted rows
// keep IsDeleted set and are never indexed.
package models
