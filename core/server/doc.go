// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// defines the listen port, the API key protecting the trigger endpoints and the
// path of the metrics endpoint.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/start when the Fiber
// app and its middleware are assembled.
package server
