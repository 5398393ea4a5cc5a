package testutil

import (
	"context"
	"sync"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

var _ pokemon.Repository = (*StubRepository)(nil)

// StubRepository is a pokemon.Repository over a fixed set of entries that
// counts calls. Set Err to make every lookup fail.
type StubRepository struct {
	Err error

	mu      sync.Mutex
	entries map[pokemon.DexID]pokemon.Pokemon
	calls   map[pokemon.DexID]int
}

// NewStubRepository returns a StubRepository holding entries.
func NewStubRepository(entries ...pokemon.Pokemon) *StubRepository {
	r := &StubRepository{
		entries: make(map[pokemon.DexID]pokemon.Pokemon, len(entries)),
		calls:   make(map[pokemon.DexID]int),
	}
	for _, p := range entries {
		r.entries[p.DexID] = p
	}
	return r
}

// Get implements pokemon.Repository.
func (r *StubRepository) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[id]++
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Calls returns how many times id was looked up.
func (r *StubRepository) Calls(id pokemon.DexID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

// TotalCalls returns the number of lookups for any id.
func (r *StubRepository) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}
