package poke

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("uninitialized", func(t *testing.T) {
		s := Uninitialized[gym]()

		_, ok := s.Get()
		assert.False(t, ok)
		assert.False(t, s.IsInitialized())
		assert.Equal(t, "Uninitialized", s.String())
	})

	t.Run("initialized", func(t *testing.T) {
		s := Initialized(gym{Leader: "brock"})

		g, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, "brock", g.Leader)
		assert.Contains(t, s.String(), "brock")
	})
}

func TestFold(t *testing.T) {
	t.Run("empty sequence yields uninitialized", func(t *testing.T) {
		state, err := Fold[gym, gymEvent](gymAggregate, nil)

		require.NoError(t, err)
		assert.False(t, state.IsInitialized())
	})

	t.Run("first event initializes and later events evolve", func(t *testing.T) {
		events := []gymEvent{
			GymOpened{Leader: "misty"},
			BadgeAwarded{Trainer: "ash"},
			BadgeAwarded{Trainer: "brock"},
		}

		state, err := Fold[gym, gymEvent](gymAggregate, events)

		require.NoError(t, err)
		g, ok := state.Get()
		require.True(t, ok)
		assert.Equal(t, gym{Leader: "misty", Badges: []string{"ash", "brock"}}, g)
	})

	t.Run("replay is deterministic", func(t *testing.T) {
		events := []gymEvent{GymOpened{Leader: "misty"}, BadgeAwarded{Trainer: "ash"}}

		first, err := Fold[gym, gymEvent](gymAggregate, events)
		require.NoError(t, err)
		second, err := Fold[gym, gymEvent](gymAggregate, events)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("illegal first event", func(t *testing.T) {
		state, err := Fold[gym, gymEvent](gymAggregate, []gymEvent{BadgeAwarded{Trainer: "ash"}})

		assert.ErrorIs(t, err, errGymClosed)
		assert.False(t, state.IsInitialized())
	})

	t.Run("illegal next event keeps previous state", func(t *testing.T) {
		events := []gymEvent{GymOpened{Leader: "misty"}, GymOpened{Leader: "lt. surge"}}

		state, err := Fold[gym, gymEvent](gymAggregate, events)

		assert.ErrorIs(t, err, errGymAlreadyOpen)
		assert.ErrorIs(t, err, ErrDomainRule)
		g, ok := state.Get()
		require.True(t, ok)
		assert.Equal(t, "misty", g.Leader)
	})

	t.Run("fold from existing state", func(t *testing.T) {
		start := Initialized(gym{Leader: "erika"})

		state, err := FoldFrom[gym, gymEvent](gymAggregate, start, []gymEvent{BadgeAwarded{Trainer: "ash"}})

		require.NoError(t, err)
		g, _ := state.Get()
		assert.Equal(t, []string{"ash"}, g.Badges)
		original, _ := start.Get()
		assert.Empty(t, original.Badges)
	})
}

func TestDeciderFuncs(t *testing.T) {
	t.Run("missing phase is unsupported", func(t *testing.T) {
		d := DeciderFuncs[gym, gymEvent, gymCommand]{}

		_, err := d.Decide(context.Background(), Uninitialized[gym](), openGym{Name: "pewter", Leader: "brock"})
		assert.ErrorIs(t, err, ErrUnsupportedCommand)
		assert.ErrorIs(t, err, ErrDomainRule)

		_, err = d.Decide(context.Background(), Initialized(gym{}), openGym{Name: "pewter", Leader: "brock"})
		assert.ErrorIs(t, err, ErrUnsupportedCommand)
	})

	t.Run("dispatches on state phase", func(t *testing.T) {
		events, err := gymDecider.Decide(context.Background(), Uninitialized[gym](), openGym{Name: "pewter", Leader: "brock"})
		require.NoError(t, err)
		assert.Equal(t, []gymEvent{GymOpened{Leader: "brock"}}, events)

		_, err = gymDecider.Decide(context.Background(), Initialized(gym{Leader: "brock"}), openGym{Name: "pewter", Leader: "brock"})
		assert.ErrorIs(t, err, errGymAlreadyOpen)
	})
}
