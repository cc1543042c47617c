// Package reconcile implements the batch reconciliation engine.
//
// Each record moves through a small state machine: validation gates it,
// the per-batch seen-set catches duplicate identities, and the remote lookup
// decides between create, update, and skip. All six terminal actions fold
// into a Summary.
//
// # Failure isolation
//
// Per-record errors are captured into that record's Outcome and never escape
// the batch loop; the engine always processes every remaining record.
//
// # Execution model
//
// The default is strictly sequential: a record's full reconciliation,
// including retry/backoff delays inside the client, completes before the
// next record begins. WithWorkers enables bounded parallelism while keeping
// the seen-set check-and-insert atomic and the summary fold
// order-independent.
package reconcile
