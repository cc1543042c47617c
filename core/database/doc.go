// Package database provides the MySQL connection used by the sample CRM
// backend's persistent lead store.
//
// The connection is optional: the backend falls back to its in-memory store
// when no database is reachable, so Connect errors are reported as warnings
// rather than aborting startup.
package database
