package trainer

import (
	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Dispatcher runs trainer commands.
type Dispatcher = poke.Dispatcher[Trainer, Event, Command]

// NewDispatcher wires the trainer aggregate to store. The trainer events are
// registered with store.
func NewDispatcher(store *poke.EventStore, pokedex pokemon.Repository, opts ...poke.DispatcherOption) *Dispatcher {
	RegisterEvents(store)
	return poke.NewDispatcher[Trainer, Event, Command](
		Category,
		poke.NewTypedStore[Event](store),
		Aggregate,
		NewDecider(pokedex),
		opts...,
	)
}

// RegisterHandlers registers d on bus for every trainer command.
func RegisterHandlers(bus *poke.CommandBus, d *Dispatcher) {
	bus.Register(
		d.Handler(StartAdventure{}.CommandType()),
		d.Handler(AddToTeam{}.CommandType()),
		d.Handler(RemoveFromTeam{}.CommandType()),
	)
}
