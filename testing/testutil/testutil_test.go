package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/AshkanYarmoradi/go-poke/adapters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and checks versions", func(t *testing.T) {
		m := &MockAdapter{}
		rec := []adapters.EventRecord{{Type: "AdventureStarted", Data: []byte(`{}`)}}

		stored, err := m.Append(ctx, "Trainer-ash", rec, adapters.NoStream)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored[0].Version)

		_, err = m.Append(ctx, "Trainer-ash", rec, adapters.NoStream)
		assert.ErrorIs(t, err, adapters.ErrConcurrencyConflict)

		events, err := m.Load(ctx, "Trainer-ash", 0)
		require.NoError(t, err)
		assert.Len(t, events, 1)
		assert.Equal(t, 2, m.AppendCalls)
		assert.Equal(t, 1, m.LoadCalls)
	})

	t.Run("injected errors", func(t *testing.T) {
		boom := errors.New("boom")
		m := &MockAdapter{AppendErr: boom, LoadErr: boom}

		_, err := m.Append(ctx, "Trainer-ash", nil, adapters.AnyVersion)
		assert.Same(t, boom, err)
		_, err = m.Load(ctx, "Trainer-ash", 0)
		assert.Same(t, boom, err)
	})
}

func TestStubRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository(Pikachu())

	p, err := repo.Get(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", p.Name)

	missing, err := repo.Get(ctx, 151)
	require.NoError(t, err)
	assert.Nil(t, missing)

	repo.Err = errors.New("offline")
	_, err = repo.Get(ctx, 25)
	assert.EqualError(t, err, "offline")

	assert.Equal(t, 2, repo.Calls(25))
	assert.Equal(t, 3, repo.TotalCalls())
}

func TestPokedexFixtures(t *testing.T) {
	seen := map[uint32]bool{}
	for _, p := range Pokedex() {
		assert.False(t, seen[p.DexID], "duplicate dex id %d", p.DexID)
		seen[p.DexID] = true
		assert.True(t, p.Type.Primary.Valid(), p.Name)
	}
}
