// Package server holds the HTTP server configuration for the sample CRM
// backend.
//
// While the serve command handles the server startup, this package defines
// the configuration structure and valid values for server settings, such as
// the supported store backends.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, store backend (memory
// or mysql) and the failure-injection rate.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command to pick the store backend.
package server
