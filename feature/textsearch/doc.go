// Package textsearch keeps the text_search_items table in sync with the CMS content tables.
//
// It plugs the CMS domain into core/reconcile:
//
//   - Converters map each indexed entity type (Article, TextPage, MediaFile,
//     MediaCategory, Form) to its base type and extract the searchable text.
//   - Store loads every row of a base type, resolves soft-deleted and dangling rows
//     to absence, and reads index entries. It is both the Source and the Index.
//   - Updater upserts and deletes index rows by (entity_id, entity_type).
//   - ReportArchive stores run reports as gzipped JSON in object storage.
//
// # Base types
//
// Webpages share one table and one base type; the document_type column selects the
// converter. A webpage whose document type has no converter is treated as dangling,
// like a media file whose category row is missing or deleted.
//
// # HTTP API
//
//   - POST /textsearch/refresh: run now (?dry_run=true to only compute)
//   - GET /textsearch/diff: pending mutations
//   - GET /textsearch/status: coordinator state and last report
//   - GET /textsearch/runs, /textsearch/runs/:id: archived reports
//   - GET /textsearch/items/:type/:id: one stored index row
package textsearch
