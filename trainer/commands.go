package trainer

import (
	"context"
	"fmt"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Command is implemented by every trainer command.
type Command interface {
	poke.StreamCommand
	isTrainerCommand()
}

// StartAdventure creates a trainer.
type StartAdventure struct {
	poke.CommandBase
	Name string `json:"name"`
	Sex  Sex    `json:"sex"`
}

// AddToTeam puts a Pokémon, looked up by dex number, into the team.
type AddToTeam struct {
	poke.CommandBase
	Trainer string        `json:"trainer"`
	DexID   pokemon.DexID `json:"dex_id"`
}

// RemoveFromTeam takes a Pokémon out of the team.
type RemoveFromTeam struct {
	poke.CommandBase
	Trainer string        `json:"trainer"`
	DexID   pokemon.DexID `json:"dex_id"`
}

// CommandType implements poke.Command.
func (StartAdventure) CommandType() string { return "StartAdventure" }
func (AddToTeam) CommandType() string      { return "AddToTeam" }
func (RemoveFromTeam) CommandType() string { return "RemoveFromTeam" }

// SourceID implements poke.StreamCommand. Each trainer owns one stream,
// keyed by name.
func (c StartAdventure) SourceID() string { return c.Name }
func (c AddToTeam) SourceID() string      { return c.Trainer }
func (c RemoveFromTeam) SourceID() string { return c.Trainer }

func (StartAdventure) isTrainerCommand() {}
func (AddToTeam) isTrainerCommand()      {}
func (RemoveFromTeam) isTrainerCommand() {}

// Validate implements poke.Command.
func (c StartAdventure) Validate() error {
	errs := poke.NewMultiValidationError(c.CommandType())
	if c.Name == "" {
		errs.AddField("Name", "required")
	}
	if c.Sex != Male && c.Sex != Female {
		errs.AddField("Sex", "must be male or female")
	}
	return errs.ErrOrNil()
}

// Validate implements poke.Command.
func (c AddToTeam) Validate() error {
	return validateTeamCommand(c.CommandType(), c.Trainer, c.DexID)
}

// Validate implements poke.Command.
func (c RemoveFromTeam) Validate() error {
	return validateTeamCommand(c.CommandType(), c.Trainer, c.DexID)
}

func validateTeamCommand(cmdType, trainer string, id pokemon.DexID) error {
	errs := poke.NewMultiValidationError(cmdType)
	if trainer == "" {
		errs.AddField("Trainer", "required")
	}
	if id == 0 {
		errs.AddField("DexID", "must be a positive dex number")
	}
	return errs.ErrOrNil()
}

// NewDecider returns the trainer decider. AddToTeam looks Pokémon up in pokedex.
func NewDecider(pokedex pokemon.Repository) poke.Decider[Trainer, Event, Command] {
	d := decider{pokedex: pokedex}
	return poke.DeciderFuncs[Trainer, Event, Command]{
		First: d.first,
		Next:  d.next,
	}
}

type decider struct {
	pokedex pokemon.Repository
}

func (d decider) first(ctx context.Context, cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case StartAdventure:
		return []Event{AdventureStarted{Name: c.Name, Sex: c.Sex}}, nil
	default:
		return nil, notStarted(cmd.SourceID())
	}
}

func (d decider) next(ctx context.Context, t Trainer, cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case StartAdventure:
		return nil, alreadyStarted(t.Name)

	case AddToTeam:
		if len(t.Team) >= MaxTeamSize {
			return nil, teamFull(t.Name)
		}
		key := fmt.Sprintf("#%d", c.DexID)
		p, err := d.pokedex.Get(ctx, c.DexID)
		if err != nil {
			return nil, poke.NewCollaboratorFailure("pokemon", key, err)
		}
		if p == nil {
			return nil, poke.NewCollaboratorNotFound("pokemon", key)
		}
		return []Event{PokemonAddedToTeam{Trainer: t.Name, Pokemon: *p}}, nil

	case RemoveFromTeam:
		if !t.HasInTeam(c.DexID) {
			return nil, notInTeam(t.Name, c.DexID)
		}
		return []Event{PokemonRemovedFromTeam{Trainer: t.Name, DexID: c.DexID}}, nil

	default:
		return nil, fmt.Errorf("trainer: unknown command %T", cmd)
	}
}
