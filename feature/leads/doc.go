// Package leads defines the lead record model together with the pure,
// batch-scope helpers that gate reconciliation.
//
// # Components
//
//   - Lead: the four-field record (name, email, company, source) whose
//     identity is the lowercase-normalized email.
//   - Validate: field-level rule checker that collects every violation
//     instead of failing fast.
//   - Tracker / DetectDuplicates: running seen-set and batch duplicate
//     detection keyed by the dedupe key.
//
// Everything in this package is side-effect free; no network access or
// mutable global state.
package leads
