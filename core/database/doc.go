// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections (production)
// and SQLite databases (local runs and tests) from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the database
// within the configured timeout. An in-memory SQLite database is pinned to a single
// connection so every query sees the same schema.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on both dialects. MissingColumns
// compares them against the columns a model expects and is used to verify the
// index tables before the first run.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "text_search_items", []string{"entity_id"})
package database
