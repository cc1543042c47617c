package crmsim

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrExists is returned when inserting a lead whose email is taken.
	ErrExists = errors.New("lead already exists")
	// ErrNotFound is returned when the requested lead does not exist.
	ErrNotFound = errors.New("lead not found")
)

// Record is a stored lead. Email is the identity and is kept lowercase.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists leads for the sample backend.
type Store interface {
	// FindByEmail returns the lead for the given email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*Record, error)
	// Insert stores a new lead, or returns ErrExists if the email is taken.
	Insert(ctx context.Context, rec Record) (*Record, error)
	// Update replaces the lead stored under email, or returns ErrNotFound.
	// Moving a lead onto an email that is already taken returns ErrExists.
	Update(ctx context.Context, email string, rec Record) (*Record, error)
}

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Record)}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[key(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Insert(_ context.Context, rec Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(rec.Email)
	if _, ok := s.items[k]; ok {
		return nil, ErrExists
	}
	rec.ID = uuid.NewString()
	rec.Email = k
	rec.UpdatedAt = time.Now().UTC()
	s.items[k] = rec
	return &rec, nil
}

func (s *MemoryStore) Update(_ context.Context, email string, rec Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email)
	existing, ok := s.items[k]
	if !ok {
		return nil, ErrNotFound
	}

	newKey := key(rec.Email)
	if newKey != k {
		if _, taken := s.items[newKey]; taken {
			return nil, ErrExists
		}
		delete(s.items, k)
	}

	rec.ID = existing.ID
	rec.Email = newKey
	rec.UpdatedAt = time.Now().UTC()
	s.items[newKey] = rec
	return &rec, nil
}
