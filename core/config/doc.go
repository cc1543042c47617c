// Package config provides configuration management for the lead reconciler.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file, and command-line flags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Remote: remote CRM endpoint, API key, retry attempts and backoff
//   - Server: sample backend settings (port, API key, store, failure rate)
//   - Database: MySQL connection details for the sample backend
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.Endpoint)
package config
