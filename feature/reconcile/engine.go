package reconcile

import (
	"context"
	"sync"

	"lead-reconciler/feature/crm"
	"lead-reconciler/feature/leads"

	"go.uber.org/zap"
)

// Engine drives the per-record reconciliation state machine. One Engine
// instance owns one run's duplicate seen-set and result accumulator.
type Engine struct {
	client  crm.Client
	logger  *zap.Logger
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers enables bounded parallelism. The default (1) processes records
// strictly sequentially in input order, which is the mode the
// first-duplicate-wins guarantee is stated for; with more workers the
// seen-set still admits exactly one record per identity, but which duplicate
// wins is scheduling-dependent.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine over the given remote client.
func NewEngine(client crm.Client, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{client: client, logger: logger, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reconciles the batch and returns per-record outcomes in input order
// together with the aggregate summary. No record's failure aborts the batch.
func (e *Engine) Run(ctx context.Context, batch []leads.Lead) ([]Outcome, Summary) {
	tracker := leads.NewTracker()
	outcomes := make([]Outcome, len(batch))

	if e.workers <= 1 {
		for i, lead := range batch {
			outcomes[i] = e.reconcileOne(ctx, lead, tracker)
		}
		return outcomes, Summarize(outcomes)
	}

	// Bounded parallel mode: outcomes land in an index-addressed slice so
	// the fold stays order-independent.
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.reconcileOne(ctx, batch[i], tracker)
			}
		}()
	}
	for i := range batch {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes, Summarize(outcomes)
}

// reconcileOne executes the state machine for a single record:
// Received -> {Rejected | DuplicateChecked} -> {SkippedDuplicate | LookedUp}
// -> {Created | Updated | SkippedIdentical | Errored}.
func (e *Engine) reconcileOne(ctx context.Context, lead leads.Lead, tracker *leads.Tracker) Outcome {
	if result := leads.Validate(lead); !result.Valid {
		return e.finish(Outcome{Lead: lead, Action: ActionRejected, Details: result.Violations})
	}

	key := lead.DedupeKey()
	if tracker.CheckAndAdd(key) {
		// Unconditional, regardless of how the first occurrence resolved.
		return e.finish(Outcome{
			Lead:    lead,
			Action:  ActionSkippedDuplicate,
			Details: []string{"duplicate of an earlier record in this batch"},
		})
	}

	remote, err := e.client.Lookup(ctx, key)
	switch {
	case crm.IsNotFound(err):
		return e.create(ctx, lead)
	case err != nil:
		return e.finish(Outcome{Lead: lead, Action: ActionErrored, Err: err, Details: []string{err.Error()}})
	}

	if lead.Equals(*remote) {
		return e.finish(Outcome{
			Lead:    lead,
			Action:  ActionSkippedIdentical,
			Details: []string{"remote record already matches"},
		})
	}
	return e.update(ctx, lead)
}

func (e *Engine) create(ctx context.Context, lead leads.Lead) Outcome {
	if _, err := e.client.Create(ctx, lead.Normalized()); err != nil {
		return e.finish(Outcome{Lead: lead, Action: ActionErrored, Err: err, Details: []string{err.Error()}})
	}
	return e.finish(Outcome{Lead: lead, Action: ActionCreated})
}

func (e *Engine) update(ctx context.Context, lead leads.Lead) Outcome {
	if _, err := e.client.Update(ctx, lead.Normalized()); err != nil {
		// The identity was claimed between our lookup and the update call.
		// Treated as a duplicate rather than a failure.
		if crm.IsConflict(err) {
			return e.finish(Outcome{
				Lead:    lead,
				Action:  ActionSkippedDuplicate,
				Details: []string{"identity was created concurrently; skipped as duplicate"},
			})
		}
		return e.finish(Outcome{Lead: lead, Action: ActionErrored, Err: err, Details: []string{err.Error()}})
	}
	return e.finish(Outcome{Lead: lead, Action: ActionUpdated})
}

func (e *Engine) finish(o Outcome) Outcome {
	fields := []zap.Field{
		zap.String("email", o.Lead.Email),
		zap.String("action", string(o.Action)),
	}
	if o.Err != nil {
		fields = append(fields, zap.Error(o.Err))
		e.logger.Warn("record reconciled", fields...)
		return o
	}
	e.logger.Info("record reconciled", fields...)
	return o
}
