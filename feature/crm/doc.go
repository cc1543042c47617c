// Package crm provides the resilient remote-access layer for the CRM system
// of record.
//
// The Client interface exposes the three remote operations (lookup, create,
// update); HTTPClient implements it over REST with a bounded retry loop.
//
// # Failure taxonomy
//
// Every failure is an *Error carrying a Kind:
//
//   - transient: rate limit, 5xx, connection-class transport error; retried
//     with exponential backoff, surfaced only once the attempt budget is
//     exhausted (the aggregate error names the attempt count and wraps the
//     last cause).
//   - malformed: a successful reply whose lead lacks name or email; never
//     retried.
//   - conflict: identity already exists. The client has no opinion on what a
//     conflict means; the reconciliation engine interprets it.
//   - not_found: unified negative lookup result (explicit found=false flag or
//     a not-found status code).
//   - invalid: malformed request (400 class); propagates on the first
//     attempt with no delay.
package crm
