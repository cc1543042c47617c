// Package ingest loads lead batches from CSV, either from a local file or
// from an object in S3-compatible storage.
//
// The source contract is strict: a mandatory header with exactly the four
// columns Name, Email, Company, Source; every data row matching the header's
// field count; blank lines ignored. Violations are fatal input errors that
// abort the run before reconciliation starts. Field-level validation is not
// done here; that is the validator's job.
package ingest
