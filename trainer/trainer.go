// Package trainer is the event-sourced trainer aggregate: a trainer starts an
// adventure and then manages a team of up to six Pokémon.
package trainer

import (
	"fmt"
	"strings"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Category is the stream category of trainer streams.
const Category = "Trainer"

// MaxTeamSize is the number of Pokémon a trainer can carry.
const MaxTeamSize = 6

// Sex of a trainer.
type Sex string

// Sexes.
const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex parses "male" or "female", ignoring case.
func ParseSex(s string) (Sex, error) {
	switch sex := Sex(strings.ToLower(s)); sex {
	case Male, Female:
		return sex, nil
	}
	return "", fmt.Errorf("trainer: unknown sex %q", s)
}

// Trainer is the state of the aggregate.
type Trainer struct {
	Name string            `json:"name"`
	Sex  Sex               `json:"sex"`
	Team []pokemon.Pokemon `json:"team"`
}

// HasInTeam reports whether a Pokémon with the given dex number is in the team.
func (t Trainer) HasInTeam(id pokemon.DexID) bool {
	return t.teamIndex(id) >= 0
}

func (t Trainer) teamIndex(id pokemon.DexID) int {
	for i := range t.Team {
		if t.Team[i].DexID == id {
			return i
		}
	}
	return -1
}

// Domain errors. Rejections carry copies with the trainer's name in the
// message; compare with errors.Is.
var (
	ErrAdventureAlreadyStarted = poke.NewDomainError(Category, "adventure_already_started", "adventure already started")
	ErrAdventureNotStarted     = poke.NewDomainError(Category, "adventure_not_started", "adventure not started")
	ErrTeamFull                = poke.NewDomainError(Category, "team_full", "team is full")
	ErrPokemonNotInTeam        = poke.NewDomainError(Category, "pokemon_not_in_team", "pokemon not in team")
)

func rejection(base *poke.DomainError, format string, args ...interface{}) *poke.DomainError {
	return &poke.DomainError{Aggregate: base.Aggregate, Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

func alreadyStarted(name string) error {
	return rejection(ErrAdventureAlreadyStarted, "adventure already started for trainer %s", name)
}

func notStarted(name string) error {
	return rejection(ErrAdventureNotStarted, "trainer %s has not started an adventure", name)
}

func teamFull(name string) error {
	return rejection(ErrTeamFull, "team of trainer %s already has %d pokemon", name, MaxTeamSize)
}

func notInTeam(name string, id pokemon.DexID) error {
	return rejection(ErrPokemonNotInTeam, "pokemon #%d is not in the team of trainer %s", id, name)
}
