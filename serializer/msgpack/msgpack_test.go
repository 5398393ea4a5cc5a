package msgpack

import (
	"testing"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trainerRegistered struct {
	Name string `msgpack:"name"`
	Sex  string `msgpack:"sex"`
}

type pokemonCaught struct {
	Trainer string          `msgpack:"trainer"`
	Pokemon pokemon.Pokemon `msgpack:"pokemon"`
}

func bulbasaur() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          1,
		Name:           "bulbasaur",
		Type:           pokemon.Double(pokemon.ElementGrass, pokemon.ElementPoison),
		Height:         7,
		Weight:         69,
		BaseExperience: 64,
		Stats:          pokemon.Stats{Speed: 45, SpecialDefense: 65, SpecialAttack: 65, Defense: 49, Attack: 49, HitPoints: 45},
	}
}

func TestSerializer_Register(t *testing.T) {
	s := NewSerializer()
	assert.Equal(t, 0, s.Registry().Count())

	s.RegisterAll(trainerRegistered{}, &pokemonCaught{})
	s.Register("Renamed", trainerRegistered{})

	assert.Equal(t, 3, s.Registry().Count())
	_, ok := s.Registry().Lookup("pokemonCaught")
	assert.True(t, ok)
}

func TestSerializer_RoundTrip(t *testing.T) {
	s := NewSerializer()
	s.RegisterAll(trainerRegistered{}, pokemonCaught{})

	t.Run("flat event", func(t *testing.T) {
		data, err := s.Serialize(trainerRegistered{Name: "ash", Sex: "male"})
		require.NoError(t, err)

		got, err := s.Deserialize(data, "trainerRegistered")
		require.NoError(t, err)
		assert.Equal(t, trainerRegistered{Name: "ash", Sex: "male"}, got)
	})

	t.Run("event carrying a pokemon", func(t *testing.T) {
		want := pokemonCaught{Trainer: "ash", Pokemon: bulbasaur()}
		data, err := s.Serialize(want)
		require.NoError(t, err)

		got, err := s.Deserialize(data, "pokemonCaught")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestSerializer_Errors(t *testing.T) {
	s := NewSerializer()
	s.RegisterAll(trainerRegistered{})

	_, err := s.Serialize(nil)
	assert.ErrorIs(t, err, poke.ErrSerializationFailed)

	_, err = s.Deserialize(nil, "trainerRegistered")
	assert.ErrorIs(t, err, poke.ErrSerializationFailed)

	_, err = s.Deserialize([]byte{0x80}, "Unknown")
	assert.ErrorIs(t, err, poke.ErrEventTypeNotRegistered)

	_, err = s.Deserialize([]byte{0xc1}, "trainerRegistered")
	assert.ErrorIs(t, err, poke.ErrSerializationFailed)
}

func TestSerializer_SharedRegistry(t *testing.T) {
	registry := poke.NewEventRegistry()
	registry.RegisterAll(trainerRegistered{})

	s := NewSerializerWithRegistry(registry)
	data, err := s.Serialize(trainerRegistered{Name: "misty", Sex: "female"})
	require.NoError(t, err)

	got, err := s.Deserialize(data, "trainerRegistered")
	require.NoError(t, err)
	assert.Equal(t, "misty", got.(trainerRegistered).Name)
}
