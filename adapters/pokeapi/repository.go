package pokeapi

import (
	"context"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

var _ pokemon.Repository = (*Repository)(nil)

// Repository is a pokemon.Repository backed by PokeAPI.
type Repository struct {
	client *Client
}

// NewRepository creates a Repository using client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Get implements pokemon.Repository.
func (r *Repository) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	root, err := r.client.GetPokemonByID(ctx, id)
	if err != nil || root == nil {
		return nil, err
	}
	p, err := root.ToPokemon()
	if err != nil {
		return nil, err
	}
	return &p, nil
}
