package server

// Config holds configuration for the sample CRM backend server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Store selects the lead store backing the server (memory, mysql).
	Store string `mapstructure:"store" default:"memory"`
	// FailureRate is the fraction of requests rejected with a retryable
	// status, between 0 and 1. Useful for exercising client backoff.
	FailureRate float64 `mapstructure:"failure_rate" default:"0"`
}

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

// IsValidStore checks if the configured store backend is valid.
func (c Config) IsValidStore() bool {
	switch c.Store {
	case StoreMemory, StoreMySQL:
		return true
	default:
		return false
	}
}
