package reconcile

import "lead-reconciler/feature/leads"

// Action is the terminal state of one record's reconciliation.
type Action string

const (
	// ActionCreated means the lead had no remote counterpart and was created.
	ActionCreated Action = "created"
	// ActionUpdated means the remote counterpart differed and was updated.
	ActionUpdated Action = "updated"
	// ActionSkippedDuplicate means an earlier record in the batch (or a
	// concurrent remote writer) already claimed this identity.
	ActionSkippedDuplicate Action = "skipped_duplicate"
	// ActionSkippedIdentical means the remote counterpart matched on all four
	// normalized fields; no mutation call was made.
	ActionSkippedIdentical Action = "skipped_identical"
	// ActionRejected means validation failed; no network call was made.
	ActionRejected Action = "rejected"
	// ActionErrored means a remote call failed past the retry budget or
	// violated the response contract.
	ActionErrored Action = "errored"
)

// Outcome is the immutable result of reconciling a single record.
type Outcome struct {
	Lead    leads.Lead `json:"lead"`
	Action  Action     `json:"action"`
	Details []string   `json:"details,omitempty"`
	Err     error      `json:"-"`
}

// Summary aggregates outcome counts for one batch. It is a pure fold over
// Outcome.Action; both skip flavors land in Skipped.
type Summary struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Rejected int `json:"rejected"`
	Errors   int `json:"errors"`
}

// Summarize folds per-record outcomes into aggregate counts.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		s.Total++
		switch o.Action {
		case ActionCreated:
			s.Created++
		case ActionUpdated:
			s.Updated++
		case ActionSkippedDuplicate, ActionSkippedIdentical:
			s.Skipped++
		case ActionRejected:
			s.Rejected++
		case ActionErrored:
			s.Errors++
		}
	}
	return s
}
