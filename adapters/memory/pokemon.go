package memory

import (
	"context"
	"sync"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

var _ pokemon.Repository = (*PokemonRepository)(nil)

// PokemonRepository keeps Pokémon in an ordered slice guarded by a RWMutex.
// Lookups scan linearly and return the first match.
type PokemonRepository struct {
	mu    sync.RWMutex
	items []pokemon.Pokemon
}

// NewPokemonRepository returns a repository seeded with the given entries.
func NewPokemonRepository(seed ...pokemon.Pokemon) *PokemonRepository {
	items := make([]pokemon.Pokemon, len(seed))
	copy(items, seed)
	return &PokemonRepository{items: items}
}

// Get returns a copy of the first entry with the given dex number, or nil.
func (r *PokemonRepository) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].DexID == id {
			p := r.items[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Insert appends p. Duplicates are kept; Get only ever sees the first one.
func (r *PokemonRepository) Insert(p pokemon.Pokemon) {
	r.mu.Lock()
	r.items = append(r.items, p)
	r.mu.Unlock()
}

// Len returns the number of stored entries, duplicates included.
func (r *PokemonRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
