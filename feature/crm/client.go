package crm

import (
	"context"

	"lead-reconciler/feature/leads"
)

// Client is the remote CRM abstraction. The reconciliation engine only ever
// reaches the system of record through this interface.
type Client interface {
	// Lookup fetches the remote lead identified by email. A missing lead is
	// reported as an *Error with KindNotFound.
	Lookup(ctx context.Context, email string) (*leads.Lead, error)
	// Create registers a new lead. An existing identity yields KindConflict.
	Create(ctx context.Context, lead leads.Lead) (*leads.Lead, error)
	// Update replaces the remote lead identified by the lead's email.
	Update(ctx context.Context, lead leads.Lead) (*leads.Lead, error)
}

// Config holds configuration for the remote CRM connection.
type Config struct {
	// Endpoint is the base URL of the CRM API.
	Endpoint string `mapstructure:"endpoint" default:"http://localhost:8080"`
	// APIKey is the secret key sent as a bearer token, if any.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
	// MaxAttempts is the total number of attempts per operation.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// BackoffMS is the base retry delay in milliseconds. The delay doubles
	// after each failed attempt. Zero is allowed for deterministic tests.
	BackoffMS int `mapstructure:"backoff_ms" default:"1000"`
}
