// Package poke provides the event-sourcing kernel of the Pokémon service:
// typed event streams, folds that rebuild aggregate state from them, deciders
// that turn commands into new events, and a dispatcher that ties the three
// together under optimistic concurrency.
//
// # Event Store
//
// Create a store on top of an adapter and register the event types it will
// read back:
//
//	store := poke.New(memory.NewAdapter())
//	store.RegisterEvents(trainer.AdventureStarted{}, trainer.PokemonAddedToTeam{})
//
// A TypedStore narrows the store to one aggregate's event type:
//
//	events := poke.NewTypedStore[trainer.Event](store)
//	version, err := events.Append(ctx, "Trainer-ash", poke.NoStream, []trainer.Event{started})
//	history, err := events.Read(ctx, "Trainer-ash")
//
// # Aggregates
//
// An Aggregate folds events into state. State starts Uninitialized and
// becomes Initialized with the first event:
//
//	agg := poke.AggregateFuncs[Trainer, Event]{
//	    First: func(e Event) (Trainer, error) { ... },
//	    Next:  func(t Trainer, e Event) (Trainer, error) { ... },
//	}
//	state, err := poke.Fold[Trainer, Event](agg, poke.Events(history))
//
// # Deciders
//
// A Decider validates a command against the current state and returns the
// events it produces. It never writes:
//
//	decider := poke.DeciderFuncs[Trainer, Event, Command]{
//	    First: func(ctx context.Context, cmd Command) ([]Event, error) { ... },
//	    Next:  func(ctx context.Context, t Trainer, cmd Command) ([]Event, error) { ... },
//	}
//
// # Dispatching
//
// The Dispatcher loads a stream, folds it, decides, and appends the new
// events with the loaded version as the expected version. Two writers racing
// on one stream cannot both succeed; the loser gets an error matching
// ErrConcurrencyConflict and nothing is retried.
//
//	d := poke.NewDispatcher[Trainer, Event, Command]("Trainer", events, agg, decider,
//	    poke.WithDispatcherLogger(logger))
//	state, err := d.Dispatch(ctx, cmd)
//
// Dispatchers plug into a CommandBus through Handler, which gives commands
// the usual middleware pipeline:
//
//	bus := poke.NewCommandBus()
//	bus.Use(poke.ValidationMiddleware())
//	bus.Use(poke.RecoveryMiddleware())
//	bus.Register(d.Handler("StartAdventure"))
package poke

// Version returns the library version string.
func Version() string {
	return "0.3.0"
}

// BuildStreamID creates a stream ID of the form "{Type}-{ID}".
func BuildStreamID(aggregateType, aggregateID string) string {
	return aggregateType + "-" + aggregateID
}
