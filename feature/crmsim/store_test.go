package crmsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec, err := s.Insert(ctx, Record{Name: "Ann", Email: "Ann@X.com", Company: "Acme", Source: "Website"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "ann@x.com", rec.Email)

	// Lookup is case-insensitive on email.
	found, err := s.FindByEmail(ctx, "ANN@x.COM")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
}

func TestMemoryStoreInsertConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, Record{Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = s.Insert(ctx, Record{Name: "Another Ann", Email: "A@X.com"})
	assert.ErrorIs(t, err, ErrExists)
}

func TestMemoryStoreFindMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec, err := s.Insert(ctx, Record{Name: "Ann", Email: "a@x.com", Company: "Acme"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "a@x.com", Record{Name: "Ann", Email: "a@x.com", Company: "New Corp"})
	require.NoError(t, err)
	assert.Equal(t, rec.ID, updated.ID, "identity survives updates")
	assert.Equal(t, "New Corp", updated.Company)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Update(context.Background(), "nobody@x.com", Record{Name: "Ann", Email: "nobody@x.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateEmailMove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, Record{Name: "Ann", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, Record{Name: "Bea", Email: "b@x.com"})
	require.NoError(t, err)

	// Moving onto a taken email conflicts.
	_, err = s.Update(ctx, "a@x.com", Record{Name: "Ann", Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrExists)

	// Moving onto a free email re-keys the record.
	moved, err := s.Update(ctx, "a@x.com", Record{Name: "Ann", Email: "c@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", moved.Email)

	_, err = s.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
