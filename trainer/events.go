package trainer

import (
	"fmt"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Event is implemented by every trainer event.
type Event interface {
	isTrainerEvent()
}

// AdventureStarted opens a trainer stream.
type AdventureStarted struct {
	Name string `json:"name" msgpack:"name"`
	Sex  Sex    `json:"sex" msgpack:"sex"`
}

// PokemonAddedToTeam records a Pokémon joining the team.
type PokemonAddedToTeam struct {
	Trainer string          `json:"trainer" msgpack:"trainer"`
	Pokemon pokemon.Pokemon `json:"pokemon" msgpack:"pokemon"`
}

// PokemonRemovedFromTeam records a Pokémon leaving the team.
type PokemonRemovedFromTeam struct {
	Trainer string        `json:"trainer" msgpack:"trainer"`
	DexID   pokemon.DexID `json:"dex_id" msgpack:"dex_id"`
}

func (AdventureStarted) isTrainerEvent()       {}
func (PokemonAddedToTeam) isTrainerEvent()     {}
func (PokemonRemovedFromTeam) isTrainerEvent() {}

// RegisterEvents registers the trainer events with store.
func RegisterEvents(store *poke.EventStore) {
	store.RegisterEvents(AdventureStarted{}, PokemonAddedToTeam{}, PokemonRemovedFromTeam{})
}

// Aggregate folds trainer events into a Trainer.
var Aggregate poke.Aggregate[Trainer, Event] = poke.AggregateFuncs[Trainer, Event]{
	First: applyFirst,
	Next:  applyNext,
}

func applyFirst(e Event) (Trainer, error) {
	started, ok := e.(AdventureStarted)
	if !ok {
		return Trainer{}, ErrAdventureNotStarted
	}
	return Trainer{Name: started.Name, Sex: started.Sex, Team: []pokemon.Pokemon{}}, nil
}

func applyNext(t Trainer, e Event) (Trainer, error) {
	switch e := e.(type) {
	case AdventureStarted:
		return t, alreadyStarted(t.Name)

	case PokemonAddedToTeam:
		if len(t.Team) >= MaxTeamSize {
			return t, teamFull(t.Name)
		}
		team := make([]pokemon.Pokemon, len(t.Team), len(t.Team)+1)
		copy(team, t.Team)
		t.Team = append(team, e.Pokemon)
		return t, nil

	case PokemonRemovedFromTeam:
		i := t.teamIndex(e.DexID)
		if i < 0 {
			return t, notInTeam(t.Name, e.DexID)
		}
		team := make([]pokemon.Pokemon, 0, len(t.Team)-1)
		team = append(team, t.Team[:i]...)
		t.Team = append(team, t.Team[i+1:]...)
		return t, nil

	default:
		return t, fmt.Errorf("trainer: unknown event %T", e)
	}
}
