package poke

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AshkanYarmoradi/go-poke/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("first command on empty stream creates the aggregate", func(t *testing.T) {
		d, adapter := newGymDispatcher()

		state, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})

		require.NoError(t, err)
		g, ok := state.Get()
		require.True(t, ok)
		assert.Equal(t, "brock", g.Leader)
		assert.Equal(t, 1, adapter.EventCount())
	})

	t.Run("second start is rejected and appends nothing", func(t *testing.T) {
		d, adapter := newGymDispatcher()
		_, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})
		require.NoError(t, err)

		_, err = d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})

		assert.ErrorIs(t, err, errGymAlreadyOpen)
		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, StageDeciding, dispatchErr.Stage)
		assert.Equal(t, "Gym-pewter", dispatchErr.StreamID)
		assert.Equal(t, "OpenGym", dispatchErr.CommandType)
		assert.Equal(t, 1, adapter.EventCount())
	})

	t.Run("command needing state is rejected on empty stream", func(t *testing.T) {
		d, adapter := newGymDispatcher()

		_, err := d.Dispatch(ctx, awardBadge{Name: "pewter", Trainer: "ash"})

		assert.ErrorIs(t, err, errGymClosed)
		assert.Equal(t, 0, adapter.EventCount())
	})

	t.Run("versions advance with each command", func(t *testing.T) {
		d, _ := newGymDispatcher()
		_, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})
		require.NoError(t, err)

		res, err := d.Execute(ctx, awardBadge{Name: "pewter", Trainer: "ash"})

		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Version)
		assert.Equal(t, 1, res.Appended)
		g, _ := res.State.Get()
		assert.Equal(t, []string{"ash"}, g.Badges)
	})

	t.Run("no events returns current state without appending", func(t *testing.T) {
		d, adapter := newGymDispatcher()
		_, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})
		require.NoError(t, err)
		_, err = d.Dispatch(ctx, awardBadge{Name: "pewter", Trainer: "ash"})
		require.NoError(t, err)

		res, err := d.Execute(ctx, awardBadge{Name: "pewter", Trainer: "ash"})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Appended)
		assert.Equal(t, int64(2), res.Version)
		assert.Equal(t, 2, adapter.EventCount())
	})

	t.Run("illegal produced events are never stored", func(t *testing.T) {
		store, adapter := newGymStore()
		sloppy := DeciderFuncs[gym, gymEvent, gymCommand]{
			First: func(context.Context, gymCommand) ([]gymEvent, error) {
				return []gymEvent{GymOpened{Leader: "koga"}, GymOpened{Leader: "janine"}}, nil
			},
		}
		d := NewDispatcher[gym, gymEvent, gymCommand]("Gym", NewTypedStore[gymEvent](store), gymAggregate, sloppy)

		_, err := d.Dispatch(ctx, openGym{Name: "fuchsia", Leader: "koga"})

		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, StageApplying, dispatchErr.Stage)
		assert.ErrorIs(t, err, errGymAlreadyOpen)
		assert.Equal(t, 0, adapter.EventCount())
	})

	t.Run("corrupt history fails while folding", func(t *testing.T) {
		store, _ := newGymStore()
		_, err := store.Append(ctx, "Gym-pewter", []interface{}{BadgeAwarded{Trainer: "ash"}})
		require.NoError(t, err)
		d := NewDispatcher[gym, gymEvent, gymCommand]("Gym", NewTypedStore[gymEvent](store), gymAggregate, gymDecider)

		_, err = d.Dispatch(ctx, awardBadge{Name: "pewter", Trainer: "gary"})

		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, StageFolding, dispatchErr.Stage)
	})

	t.Run("store failure fails while loading", func(t *testing.T) {
		adapter := memory.NewAdapter()
		store := New(adapter)
		require.NoError(t, adapter.Close())
		d := NewDispatcher[gym, gymEvent, gymCommand]("Gym", NewTypedStore[gymEvent](store), gymAggregate, gymDecider)

		_, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})

		assert.ErrorIs(t, err, ErrAdapterClosed)
		var dispatchErr *DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, StageLoading, dispatchErr.Stage)
	})

	t.Run("logs each stage", func(t *testing.T) {
		logger := &recordingLogger{}
		d, _ := newGymDispatcher(WithDispatcherLogger(logger))

		_, err := d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})

		require.NoError(t, err)
		assert.Equal(t, []string{"debug:loading stream", "debug:deciding", "debug:appended events"}, logger.entries)
	})
}

// barrierDecider blocks every decision until n callers have read the stream.
type barrierDecider struct {
	inner   Decider[gym, gymEvent, gymCommand]
	arrived sync.WaitGroup
}

func (b *barrierDecider) Decide(ctx context.Context, state State[gym], cmd gymCommand) ([]gymEvent, error) {
	b.arrived.Done()
	b.arrived.Wait()
	return b.inner.Decide(ctx, state, cmd)
}

func TestDispatcher_ConcurrentDispatchOnEmptyStream(t *testing.T) {
	ctx := context.Background()
	store, adapter := newGymStore()
	barrier := &barrierDecider{inner: gymDecider}
	barrier.arrived.Add(2)
	d := NewDispatcher[gym, gymEvent, gymCommand]("Gym", NewTypedStore[gymEvent](store), gymAggregate, barrier)

	errs := make(chan error, 2)
	for _, leader := range []string{"blaine", "giovanni"} {
		go func(leader string) {
			_, err := d.Dispatch(ctx, openGym{Name: "cinnabar", Leader: leader})
			errs <- err
		}(leader)
	}

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrencyConflict):
				conflicts++
				var dispatchErr *DispatchError
				require.ErrorAs(t, err, &dispatchErr)
				assert.Equal(t, StageAppending, dispatchErr.Stage)
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("dispatch did not finish")
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, adapter.EventCount())
}

func TestDispatcher_Load(t *testing.T) {
	ctx := context.Background()
	d, _ := newGymDispatcher()

	state, version, err := d.Load(ctx, "pewter")
	require.NoError(t, err)
	assert.False(t, state.IsInitialized())
	assert.Equal(t, int64(0), version)

	_, err = d.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})
	require.NoError(t, err)

	state, version, err = d.Load(ctx, "pewter")
	require.NoError(t, err)
	assert.True(t, state.IsInitialized())
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "Gym-pewter", d.StreamID("pewter"))
}

func TestDispatcher_Handler(t *testing.T) {
	ctx := context.Background()
	d, _ := newGymDispatcher()
	bus := NewCommandBus()
	bus.Register(d.Handler("OpenGym"), d.Handler("AwardBadge"))

	result, err := bus.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})

	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.Equal(t, "pewter", result.AggregateID)
	assert.Equal(t, int64(1), result.Version)
	state, ok := result.Data.(State[gym])
	require.True(t, ok)
	g, _ := state.Get()
	assert.Equal(t, "brock", g.Leader)

	result, err = bus.Dispatch(ctx, openGym{Name: "pewter", Leader: "brock"})
	assert.ErrorIs(t, err, errGymAlreadyOpen)
	assert.True(t, result.IsError())
}
