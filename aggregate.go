package poke

import "fmt"

// State is the state of an aggregate: either Uninitialized, before the first
// event of its stream, or Initialized with a value.
type State[S any] struct {
	value       S
	initialized bool
}

// Uninitialized returns the state of an aggregate with an empty stream.
func Uninitialized[S any]() State[S] {
	return State[S]{}
}

// Initialized wraps s as an initialized state.
func Initialized[S any](s S) State[S] {
	return State[S]{value: s, initialized: true}
}

// Get returns the value and whether the state is initialized.
func (s State[S]) Get() (S, bool) {
	return s.value, s.initialized
}

// IsInitialized reports whether the aggregate has at least one event.
func (s State[S]) IsInitialized() bool {
	return s.initialized
}

// String implements fmt.Stringer.
func (s State[S]) String() string {
	if !s.initialized {
		return "Uninitialized"
	}
	return fmt.Sprintf("Initialized(%+v)", s.value)
}

// Aggregate folds events into state. Apply must be deterministic and free of
// side effects: no clock, randomness or I/O.
type Aggregate[S, E any] interface {
	Apply(state State[S], event E) (State[S], error)
}

// AggregateFuncs builds an Aggregate from one function per phase. First
// creates the state from the first event of a stream; Next evolves it.
type AggregateFuncs[S, E any] struct {
	First func(event E) (S, error)
	Next  func(state S, event E) (S, error)
}

// Apply implements Aggregate.
func (f AggregateFuncs[S, E]) Apply(state State[S], event E) (State[S], error) {
	var (
		next S
		err  error
	)
	if current, ok := state.Get(); ok {
		next, err = f.Next(current, event)
	} else {
		next, err = f.First(event)
	}
	if err != nil {
		return state, err
	}
	return Initialized(next), nil
}

// Fold replays events from the Uninitialized state. No events means
// Uninitialized and a nil error.
func Fold[S, E any](agg Aggregate[S, E], events []E) (State[S], error) {
	return FoldFrom(agg, Uninitialized[S](), events)
}

// FoldFrom replays events on top of state. It stops at the first event that
// fails and returns the state before it.
func FoldFrom[S, E any](agg Aggregate[S, E], state State[S], events []E) (State[S], error) {
	for i, e := range events {
		next, err := agg.Apply(state, e)
		if err != nil {
			return state, fmt.Errorf("poke: apply event %d (%T): %w", i, e, err)
		}
		state = next
	}
	return state, nil
}
