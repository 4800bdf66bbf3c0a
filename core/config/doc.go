// Package config provides configuration management for the search indexer.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: CMS database connection details
//   - Storage: S3/MinIO credentials for the report archive
//   - Log: Logging level and format
//   - Indexer: run schedule, lock and updater tuning
//
// Defaults come from the `default` struct tag of every field. Environment variables
// map to nested keys by replacing dots with underscores (INDEXER_LOCK_TTL sets
// indexer.lock_ttl). Durations accept Go duration strings such as "10m".
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Indexer.Interval)
package config
