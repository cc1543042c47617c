// Package storage provides the S3-compatible object-storage client used to
// fetch lead batches exported by upstream systems.
//
// The Client interface wraps the Minio SDK so callers can be tested against
// the mocks subpackage without a live endpoint. Connection setup uses strict
// transport timeouts; per-operation deadlines come from the caller's context.
package storage
