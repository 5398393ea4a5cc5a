package trainer

import (
	"testing"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mon(id pokemon.DexID) pokemon.Pokemon {
	return pokemon.Pokemon{DexID: id, Name: "mon", Type: pokemon.Single(pokemon.ElementNormal)}
}

func TestAggregate(t *testing.T) {
	t.Run("history must start with AdventureStarted", func(t *testing.T) {
		_, err := poke.Fold(Aggregate, []Event{PokemonAddedToTeam{Trainer: "ash", Pokemon: mon(1)}})
		assert.ErrorIs(t, err, ErrAdventureNotStarted)
	})

	t.Run("a second AdventureStarted is illegal", func(t *testing.T) {
		_, err := poke.Fold(Aggregate, []Event{
			AdventureStarted{Name: "ash", Sex: Male},
			AdventureStarted{Name: "ash", Sex: Male},
		})
		assert.ErrorIs(t, err, ErrAdventureAlreadyStarted)
	})

	t.Run("team never exceeds six", func(t *testing.T) {
		history := []Event{AdventureStarted{Name: "ash", Sex: Male}}
		for i := 0; i <= MaxTeamSize; i++ {
			history = append(history, PokemonAddedToTeam{Trainer: "ash", Pokemon: mon(pokemon.DexID(i + 1))})
		}
		_, err := poke.Fold(Aggregate, history)
		assert.ErrorIs(t, err, ErrTeamFull)

		state, err := poke.Fold(Aggregate, history[:MaxTeamSize+1])
		require.NoError(t, err)
		tr, _ := state.Get()
		assert.Len(t, tr.Team, MaxTeamSize)
	})

	t.Run("removing an absent pokemon is illegal", func(t *testing.T) {
		_, err := poke.Fold(Aggregate, []Event{
			AdventureStarted{Name: "ash", Sex: Male},
			PokemonRemovedFromTeam{Trainer: "ash", DexID: 25},
		})
		assert.ErrorIs(t, err, ErrPokemonNotInTeam)
	})

	t.Run("applying does not share team storage", func(t *testing.T) {
		before, err := poke.Fold(Aggregate, []Event{
			AdventureStarted{Name: "ash", Sex: Male},
			PokemonAddedToTeam{Trainer: "ash", Pokemon: mon(1)},
		})
		require.NoError(t, err)

		after, err := Aggregate.Apply(before, PokemonRemovedFromTeam{Trainer: "ash", DexID: 1})
		require.NoError(t, err)

		old, _ := before.Get()
		updated, _ := after.Get()
		assert.Len(t, old.Team, 1)
		assert.Empty(t, updated.Team)
	})
}

func TestDomainErrorsCarryTrainerName(t *testing.T) {
	err := notInTeam("ash", 25)
	assert.ErrorIs(t, err, ErrPokemonNotInTeam)
	assert.NotErrorIs(t, err, ErrTeamFull)
	assert.Equal(t, "pokemon #25 is not in the team of trainer ash", err.Error())
}
