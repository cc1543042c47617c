// Package crmsim implements the sample CRM backend served by the serve
// command. It exposes the lead lookup, create and update endpoints the
// reconciler talks to, backed by either an in-memory store or MySQL.
//
// A configurable failure-injection middleware returns retryable statuses at
// a given rate, which makes the backend useful for exercising the
// reconciler's retry and conflict handling against a live server.
package crmsim
