package reconcile

import (
	"context"
	"sync"
	"testing"

	"lead-reconciler/feature/crm"
	"lead-reconciler/feature/leads"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory crm.Client that records call order and can be
// scripted to fail per operation.
type fakeClient struct {
	mu    sync.Mutex
	store map[string]leads.Lead
	calls []string

	lookupErr error
	createErr error
	updateErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{store: make(map[string]leads.Lead)}
}

func (f *fakeClient) Lookup(ctx context.Context, email string) (*leads.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "lookup:"+email)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if lead, ok := f.store[email]; ok {
		return &lead, nil
	}
	return nil, &crm.Error{Kind: crm.KindNotFound}
}

func (f *fakeClient) Create(ctx context.Context, lead leads.Lead) (*leads.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+lead.DedupeKey())
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.store[lead.DedupeKey()] = lead
	return &lead, nil
}

func (f *fakeClient) Update(ctx context.Context, lead leads.Lead) (*leads.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update:"+lead.DedupeKey())
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.store[lead.DedupeKey()] = lead
	return &lead, nil
}

func (f *fakeClient) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func validLead(email string) leads.Lead {
	return leads.Lead{Name: "Ada", Email: email, Company: "Acme", Source: "LinkedIn"}
}

func TestRun_CreatesWhenNoRemoteCounterpart(t *testing.T) {
	client := newFakeClient()
	engine := NewEngine(client, nil)

	outcomes, summary := engine.Run(context.Background(), []leads.Lead{validLead("a@x.com")})

	require.Len(t, outcomes, 1)
	assert.Equal(t, ActionCreated, outcomes[0].Action)
	assert.Equal(t, 1, client.callCount("create:"))
	assert.Equal(t, Summary{Total: 1, Created: 1}, summary)
}

func TestRun_SkipsIdenticalWithoutMutation(t *testing.T) {
	client := newFakeClient()
	client.store["a@x.com"] = leads.Lead{Name: "Ada", Email: "a@x.com", Company: "Acme", Source: "LinkedIn"}
	engine := NewEngine(client, nil)

	// Differs only in normalization-insensitive ways.
	incoming := leads.Lead{Name: " Ada ", Email: "A@X.com", Company: "Acme", Source: "LinkedIn"}
	outcomes, summary := engine.Run(context.Background(), []leads.Lead{incoming})

	assert.Equal(t, ActionSkippedIdentical, outcomes[0].Action)
	assert.Equal(t, 0, client.callCount("create:"))
	assert.Equal(t, 0, client.callCount("update:"))
	assert.Equal(t, 1, summary.Skipped)
}

func TestRun_UpdatesWhenFieldsDiffer(t *testing.T) {
	client := newFakeClient()
	client.store["b@x.com"] = leads.Lead{Name: "Bea", Email: "b@x.com", Company: "Old Corp", Source: "Website"}
	engine := NewEngine(client, nil)

	outcomes, _ := engine.Run(context.Background(), []leads.Lead{
		{Name: "Bea", Email: "b@x.com", Company: "New Corp", Source: "Website"},
	})

	assert.Equal(t, ActionUpdated, outcomes[0].Action)
	// Lookup always precedes the update call.
	require.Equal(t, []string{"lookup:b@x.com", "update:b@x.com"}, client.calls)
	// The update payload carries the incoming company.
	assert.Equal(t, "New Corp", client.store["b@x.com"].Company)
}

func TestRun_FirstDuplicateWins(t *testing.T) {
	client := newFakeClient()
	engine := NewEngine(client, nil)

	batch := []leads.Lead{
		validLead("a@x.com"),
		validLead("A@x.com"),
		validLead("a@X.COM"),
	}
	outcomes, summary := engine.Run(context.Background(), batch)

	assert.Equal(t, ActionCreated, outcomes[0].Action)
	assert.Equal(t, ActionSkippedDuplicate, outcomes[1].Action)
	assert.Equal(t, ActionSkippedDuplicate, outcomes[2].Action)
	// Exactly the first occurrence reached the remote.
	assert.Equal(t, 1, client.callCount("lookup:"))
	assert.Equal(t, Summary{Total: 3, Created: 1, Skipped: 2}, summary)
}

func TestRun_DuplicateSkippedEvenWhenFirstErrored(t *testing.T) {
	client := newFakeClient()
	client.lookupErr = &crm.Error{Kind: crm.KindTransient, Attempts: 3}
	engine := NewEngine(client, nil)

	outcomes, _ := engine.Run(context.Background(), []leads.Lead{
		validLead("a@x.com"),
		validLead("a@x.com"),
	})

	assert.Equal(t, ActionErrored, outcomes[0].Action)
	assert.Equal(t, ActionSkippedDuplicate, outcomes[1].Action)
	assert.Equal(t, 1, client.callCount("lookup:"))
}

func TestRun_InvalidLeadNeverReachesRemote(t *testing.T) {
	client := newFakeClient()
	engine := NewEngine(client, nil)

	outcomes, summary := engine.Run(context.Background(), []leads.Lead{
		{Name: "Ada", Email: "bademail", Company: "Acme", Source: "LinkedIn"},
	})

	assert.Equal(t, ActionRejected, outcomes[0].Action)
	assert.Contains(t, outcomes[0].Details, "email is not a valid address")
	assert.Empty(t, client.calls)
	assert.Equal(t, 1, summary.Rejected)
}

func TestRun_LookupFailureIsolatesRecord(t *testing.T) {
	client := newFakeClient()
	engine := NewEngine(client, nil)

	// First record errors on lookup; the batch continues and the second
	// record is created normally.
	client.lookupErr = &crm.Error{Kind: crm.KindTransient, Attempts: 3, Message: "lookup failed"}
	outcomes1, _ := engine.Run(context.Background(), []leads.Lead{validLead("a@x.com")})
	assert.Equal(t, ActionErrored, outcomes1[0].Action)

	client.lookupErr = nil
	outcomes2, summary := engine.Run(context.Background(), []leads.Lead{validLead("b@x.com")})
	assert.Equal(t, ActionCreated, outcomes2[0].Action)
	assert.Equal(t, 1, summary.Created)
}

func TestRun_CreateFailureErrors(t *testing.T) {
	client := newFakeClient()
	client.createErr = &crm.Error{Kind: crm.KindConflict, Message: "lead already exists"}
	engine := NewEngine(client, nil)

	outcomes, summary := engine.Run(context.Background(), []leads.Lead{validLead("a@x.com")})

	assert.Equal(t, ActionErrored, outcomes[0].Action)
	assert.Equal(t, 1, summary.Errors)
}

func TestRun_UpdateConflictReclassifiedAsDuplicate(t *testing.T) {
	client := newFakeClient()
	client.store["a@x.com"] = leads.Lead{Name: "Ada", Email: "a@x.com", Company: "Old", Source: "Website"}
	client.updateErr = &crm.Error{Kind: crm.KindConflict}
	engine := NewEngine(client, nil)

	outcomes, summary := engine.Run(context.Background(), []leads.Lead{
		{Name: "Ada", Email: "a@x.com", Company: "New", Source: "Website"},
	})

	assert.Equal(t, ActionSkippedDuplicate, outcomes[0].Action)
	assert.Equal(t, Summary{Total: 1, Skipped: 1}, summary)
}

func TestRun_UpdateFailureErrors(t *testing.T) {
	client := newFakeClient()
	client.store["a@x.com"] = leads.Lead{Name: "Ada", Email: "a@x.com", Company: "Old", Source: "Website"}
	client.updateErr = &crm.Error{Kind: crm.KindTransient, Attempts: 3}
	engine := NewEngine(client, nil)

	outcomes, _ := engine.Run(context.Background(), []leads.Lead{
		{Name: "Ada", Email: "a@x.com", Company: "New", Source: "Website"},
	})
	assert.Equal(t, ActionErrored, outcomes[0].Action)
}

func TestRun_DuplicatePairScenario(t *testing.T) {
	// Batch of two identical leads against an empty remote store.
	client := newFakeClient()
	engine := NewEngine(client, nil)

	batch := []leads.Lead{
		{Name: "A", Email: "a@x.com", Company: "Acme", Source: "LinkedIn"},
		{Name: "A", Email: "a@x.com", Company: "Acme", Source: "LinkedIn"},
	}
	outcomes, summary := engine.Run(context.Background(), batch)

	assert.Equal(t, ActionCreated, outcomes[0].Action)
	assert.Equal(t, ActionSkippedDuplicate, outcomes[1].Action)
	assert.Equal(t, Summary{Total: 2, Created: 1, Updated: 0, Skipped: 1, Errors: 0}, summary)
}

func TestRun_ParallelAdmitsOneRecordPerIdentity(t *testing.T) {
	client := newFakeClient()
	engine := NewEngine(client, nil, WithWorkers(4))

	batch := make([]leads.Lead, 0, 20)
	for i := 0; i < 20; i++ {
		batch = append(batch, validLead("same@x.com"))
	}
	outcomes, summary := engine.Run(context.Background(), batch)

	assert.Equal(t, 1, client.callCount("lookup:"))
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 19, summary.Skipped)

	skipped := 0
	for _, o := range outcomes {
		if o.Action == ActionSkippedDuplicate {
			skipped++
		}
	}
	assert.Equal(t, 19, skipped)
}

func TestSummarize_FoldsAllActions(t *testing.T) {
	outcomes := []Outcome{
		{Action: ActionCreated},
		{Action: ActionUpdated},
		{Action: ActionSkippedDuplicate},
		{Action: ActionSkippedIdentical},
		{Action: ActionRejected},
		{Action: ActionErrored},
	}
	assert.Equal(t, Summary{Total: 6, Created: 1, Updated: 1, Skipped: 2, Rejected: 1, Errors: 1}, Summarize(outcomes))

	// Pure: same input, same output.
	assert.Equal(t, Summarize(outcomes), Summarize(outcomes))
}
