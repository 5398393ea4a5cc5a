package poke

import (
	"context"
	"errors"
)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherConfig)

type dispatcherConfig struct {
	logger Logger
}

// WithDispatcherLogger sets the logger that traces each dispatch step.
func WithDispatcherLogger(l Logger) DispatcherOption {
	return func(c *dispatcherConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Dispatcher runs commands against event-sourced aggregates of one category.
//
// For each command it reads the stream, folds it, asks the decider for new
// events, folds those onto the state and appends them with the read length
// as the expected version. Nothing is locked: concurrent commands on one
// stream race at the append and all but one fail with a ConcurrencyError.
// Failed commands are not retried.
type Dispatcher[S, E any, C StreamCommand] struct {
	category  string
	store     Store[E]
	aggregate Aggregate[S, E]
	decider   Decider[S, E, C]
	logger    Logger
}

// NewDispatcher creates a Dispatcher for streams named "{category}-{source ID}".
func NewDispatcher[S, E any, C StreamCommand](
	category string,
	store Store[E],
	aggregate Aggregate[S, E],
	decider Decider[S, E, C],
	opts ...DispatcherOption,
) *Dispatcher[S, E, C] {
	cfg := dispatcherConfig{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dispatcher[S, E, C]{
		category:  category,
		store:     store,
		aggregate: aggregate,
		decider:   decider,
		logger:    cfg.logger,
	}
}

// StreamID returns the stream that holds sourceID's events.
func (d *Dispatcher[S, E, C]) StreamID(sourceID string) string {
	return BuildStreamID(d.category, sourceID)
}

// Result is the outcome of a successful dispatch.
type Result[S any] struct {
	State State[S]

	// Version is the stream version after the dispatch.
	Version int64

	// Appended is the number of events the command produced.
	Appended int
}

// Dispatch executes cmd and returns the aggregate state after it.
func (d *Dispatcher[S, E, C]) Dispatch(ctx context.Context, cmd C) (State[S], error) {
	res, err := d.Execute(ctx, cmd)
	if err != nil {
		return Uninitialized[S](), err
	}
	return res.State, nil
}

// Execute is Dispatch with the resulting version and event count. Any error
// is a *DispatchError naming the failed step:
//   - StageLoading: the stream could not be read
//   - StageFolding: the stored history does not fold
//   - StageDeciding: the decider rejected the command; nothing is appended
//   - StageApplying: the decided events do not fold onto the current state
//   - StageAppending: the append failed, including concurrency conflicts
//
// A command that produces no events returns the current state and version.
func (d *Dispatcher[S, E, C]) Execute(ctx context.Context, cmd C) (Result[S], error) {
	streamID := d.StreamID(cmd.SourceID())
	fail := func(stage DispatchStage, err error) (Result[S], error) {
		return Result[S]{}, &DispatchError{
			Stage:       stage,
			StreamID:    streamID,
			CommandType: cmd.CommandType(),
			Cause:       err,
		}
	}

	d.logger.Debug("loading stream", "stream", streamID, "command", cmd.CommandType())
	history, err := d.store.Read(ctx, streamID)
	if err != nil {
		return fail(StageLoading, err)
	}
	expected := int64(len(history))

	state, err := Fold(d.aggregate, Events(history))
	if err != nil {
		return fail(StageFolding, err)
	}

	d.logger.Debug("deciding", "stream", streamID, "command", cmd.CommandType(), "version", expected)
	events, err := d.decider.Decide(ctx, state, cmd)
	if err != nil {
		return fail(StageDeciding, err)
	}
	if len(events) == 0 {
		return Result[S]{State: state, Version: expected}, nil
	}

	// Produced events must be legal for the state they were decided on.
	next, err := FoldFrom(d.aggregate, state, events)
	if err != nil {
		return fail(StageApplying, err)
	}

	version, err := d.store.Append(ctx, streamID, expected, events)
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			d.logger.Warn("concurrent write on stream", "stream", streamID, "command", cmd.CommandType(), "expected_version", expected)
		}
		return fail(StageAppending, err)
	}

	d.logger.Debug("appended events", "stream", streamID, "command", cmd.CommandType(), "count", len(events), "version", version)
	return Result[S]{State: next, Version: version, Appended: len(events)}, nil
}

// Load returns the current state and version of sourceID's aggregate.
func (d *Dispatcher[S, E, C]) Load(ctx context.Context, sourceID string) (State[S], int64, error) {
	history, err := d.store.Read(ctx, d.StreamID(sourceID))
	if err != nil {
		return Uninitialized[S](), 0, err
	}
	state, err := Fold(d.aggregate, Events(history))
	if err != nil {
		return Uninitialized[S](), 0, err
	}
	return state, int64(len(history)), nil
}

// Handler exposes the dispatcher on a CommandBus for cmdType. The result's
// Data holds the new State[S]. Commands that are not a C are rejected.
func (d *Dispatcher[S, E, C]) Handler(cmdType string) CommandHandler {
	return NewCommandHandlerFunc(cmdType, func(ctx context.Context, cmd Command) (CommandResult, error) {
		typed, ok := cmd.(C)
		if !ok {
			err := NewValidationError(cmd.CommandType(), "", "command not accepted by this aggregate")
			return NewErrorResult(err), err
		}
		res, err := d.Execute(ctx, typed)
		if err != nil {
			return NewErrorResult(err), err
		}
		return NewSuccessResultWithData(typed.SourceID(), res.Version, res.State), nil
	})
}
