package leads

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDuplicates(t *testing.T) {
	batch := []Lead{
		{Email: "a@x.com"},
		{Email: "b@x.com"},
		{Email: "A@X.COM"}, // duplicate of position 0 after normalization
		{Email: "c@x.com"},
		{Email: "b@x.com"},
	}

	dupes := DetectDuplicates(batch)
	assert.Len(t, dupes, 2)
	assert.Equal(t, []int{0, 2}, dupes["a@x.com"])
	assert.Equal(t, []int{1, 4}, dupes["b@x.com"])
	assert.NotContains(t, dupes, "c@x.com")
}

func TestDetectDuplicates_Pure(t *testing.T) {
	batch := []Lead{
		{Email: "a@x.com"},
		{Email: "a@x.com"},
	}

	first := DetectDuplicates(batch)
	second := DetectDuplicates(batch)
	assert.Equal(t, first, second)

	// Independent invocations carry no state across each other.
	assert.Empty(t, DetectDuplicates([]Lead{{Email: "a@x.com"}}))
}

func TestTracker_CheckAndAdd(t *testing.T) {
	tracker := NewTracker()
	assert.False(t, tracker.CheckAndAdd("a@x.com"))
	assert.True(t, tracker.CheckAndAdd("a@x.com"))
	assert.False(t, tracker.CheckAndAdd("b@x.com"))
	assert.Equal(t, 2, tracker.Len())
}

func TestTracker_AtomicUnderConcurrency(t *testing.T) {
	tracker := NewTracker()

	const workers = 32
	firsts := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			firsts <- !tracker.CheckAndAdd("a@x.com")
		}()
	}
	wg.Wait()
	close(firsts)

	// Exactly one goroutine may observe the key as unseen.
	count := 0
	for first := range firsts {
		if first {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
