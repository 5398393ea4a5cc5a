package trainer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/adapters/memory"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/AshkanYarmoradi/go-poke/testing/testutil"
	"github.com/AshkanYarmoradi/go-poke/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	adapter    *memory.MemoryAdapter
	store      *poke.EventStore
	pokedex    *testutil.StubRepository
	dispatcher *trainer.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	adapter := memory.NewAdapter()
	store := poke.New(adapter)
	pokedex := testutil.NewStubRepository(testutil.Pokedex()...)
	return &fixture{
		adapter:    adapter,
		store:      store,
		pokedex:    pokedex,
		dispatcher: trainer.NewDispatcher(store, pokedex),
	}
}

func (f *fixture) start(t *testing.T, name string) {
	t.Helper()
	_, err := f.dispatcher.Dispatch(context.Background(), trainer.StartAdventure{Name: name, Sex: trainer.Male})
	require.NoError(t, err)
}

func (f *fixture) add(t *testing.T, name string, id pokemon.DexID) trainer.Trainer {
	t.Helper()
	state, err := f.dispatcher.Dispatch(context.Background(), trainer.AddToTeam{Trainer: name, DexID: id})
	require.NoError(t, err)
	tr, ok := state.Get()
	require.True(t, ok)
	return tr
}

func TestStartAdventure(t *testing.T) {
	ctx := context.Background()

	t.Run("first start creates the trainer", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.dispatcher.Execute(ctx, trainer.StartAdventure{Name: "ash", Sex: trainer.Male})
		require.NoError(t, err)

		tr, ok := res.State.Get()
		require.True(t, ok)
		assert.Equal(t, "ash", tr.Name)
		assert.Equal(t, trainer.Male, tr.Sex)
		assert.Empty(t, tr.Team)
		assert.Equal(t, int64(1), res.Version)
		assert.Equal(t, 1, res.Appended)

		events, err := f.store.Load(ctx, "Trainer-ash")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "AdventureStarted", events[0].Type)
		assert.Equal(t, trainer.AdventureStarted{Name: "ash", Sex: trainer.Male}, events[0].Data)
	})

	t.Run("second start is rejected and appends nothing", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "misty")

		_, err := f.dispatcher.Dispatch(ctx, trainer.StartAdventure{Name: "misty", Sex: trainer.Female})
		require.Error(t, err)
		assert.ErrorIs(t, err, trainer.ErrAdventureAlreadyStarted)
		assert.ErrorIs(t, err, poke.ErrDomainRule)
		assert.Contains(t, err.Error(), "adventure already started for trainer misty")

		var de *poke.DispatchError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, poke.StageDeciding, de.Stage)
		assert.Equal(t, 1, f.adapter.EventCount())
	})

	t.Run("trainers live in separate streams", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		f.start(t, "brock")

		assert.Equal(t, 2, f.adapter.StreamCount())
	})
}

func TestAddToTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a started adventure", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.dispatcher.Dispatch(ctx, trainer.AddToTeam{Trainer: "gary", DexID: 25})
		assert.ErrorIs(t, err, trainer.ErrAdventureNotStarted)
		assert.Equal(t, 0, f.adapter.EventCount())
		assert.Zero(t, f.pokedex.TotalCalls())
	})

	t.Run("adds the looked up pokemon", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")

		tr := f.add(t, "ash", 25)
		require.Len(t, tr.Team, 1)
		assert.Equal(t, testutil.Pikachu(), tr.Team[0])
		assert.Equal(t, 1, f.pokedex.Calls(25))
	})

	t.Run("allows duplicates", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		f.add(t, "ash", 25)

		tr := f.add(t, "ash", 25)
		assert.Len(t, tr.Team, 2)
	})

	t.Run("rejects a seventh pokemon before looking it up", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		for i := 0; i < trainer.MaxTeamSize; i++ {
			f.add(t, "ash", 1)
		}

		_, err := f.dispatcher.Dispatch(ctx, trainer.AddToTeam{Trainer: "ash", DexID: 150})
		assert.ErrorIs(t, err, trainer.ErrTeamFull)
		assert.Zero(t, f.pokedex.Calls(150))
		assert.Equal(t, 1+trainer.MaxTeamSize, f.adapter.EventCount())
	})

	t.Run("unknown pokemon", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")

		_, err := f.dispatcher.Dispatch(ctx, trainer.AddToTeam{Trainer: "ash", DexID: 999})
		assert.ErrorIs(t, err, poke.ErrCollaboratorNotFound)
		assert.NotErrorIs(t, err, poke.ErrDomainRule)

		var ce *poke.CollaboratorError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "pokemon", ce.Collaborator)
		assert.Equal(t, "#999", ce.Key)
		assert.Equal(t, 1, f.adapter.EventCount())
	})

	t.Run("failing lookup", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		offline := errors.New("pokeapi offline")
		f.pokedex.Err = offline

		_, err := f.dispatcher.Dispatch(ctx, trainer.AddToTeam{Trainer: "ash", DexID: 25})
		assert.ErrorIs(t, err, poke.ErrCollaboratorFailed)
		assert.ErrorIs(t, err, offline)
		assert.Equal(t, 1, f.adapter.EventCount())
	})
}

func TestRemoveFromTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the first match only", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		f.add(t, "ash", 25)
		f.add(t, "ash", 4)
		f.add(t, "ash", 25)

		state, err := f.dispatcher.Dispatch(ctx, trainer.RemoveFromTeam{Trainer: "ash", DexID: 25})
		require.NoError(t, err)
		tr, _ := state.Get()

		require.Len(t, tr.Team, 2)
		assert.Equal(t, pokemon.DexID(4), tr.Team[0].DexID)
		assert.Equal(t, pokemon.DexID(25), tr.Team[1].DexID)
	})

	t.Run("not in team", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, "ash")
		f.add(t, "ash", 7)

		_, err := f.dispatcher.Dispatch(ctx, trainer.RemoveFromTeam{Trainer: "ash", DexID: 25})
		assert.ErrorIs(t, err, trainer.ErrPokemonNotInTeam)
		assert.Equal(t, 2, f.adapter.EventCount())
	})

	t.Run("requires a started adventure", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.dispatcher.Dispatch(ctx, trainer.RemoveFromTeam{Trainer: "ash", DexID: 25})
		assert.ErrorIs(t, err, trainer.ErrAdventureNotStarted)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	state, version, err := f.dispatcher.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, state.IsInitialized())
	assert.Zero(t, version)

	f.start(t, "ash")
	f.add(t, "ash", 6)

	state, version, err = f.dispatcher.Load(ctx, "ash")
	require.NoError(t, err)
	tr, ok := state.Get()
	require.True(t, ok)
	assert.Equal(t, int64(2), version)
	assert.Equal(t, []pokemon.Pokemon{testutil.Charizard()}, tr.Team)
}

func TestConcurrentStarts(t *testing.T) {
	f := newFixture(t)
	const writers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.dispatcher.Dispatch(context.Background(), trainer.StartAdventure{Name: "red", Sex: trainer.Male})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		lost := errors.Is(err, poke.ErrConcurrencyConflict) || errors.Is(err, trainer.ErrAdventureAlreadyStarted)
		assert.True(t, lost, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, f.adapter.EventCount())
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name  string
		cmd   poke.Command
		valid bool
	}{
		{"start", trainer.StartAdventure{Name: "ash", Sex: trainer.Male}, true},
		{"start without name", trainer.StartAdventure{Sex: trainer.Female}, false},
		{"start with unknown sex", trainer.StartAdventure{Name: "ash", Sex: "other"}, false},
		{"start with capitalised sex", trainer.StartAdventure{Name: "ash", Sex: "Male"}, false},
		{"add", trainer.AddToTeam{Trainer: "ash", DexID: 1}, true},
		{"add dex zero", trainer.AddToTeam{Trainer: "ash"}, false},
		{"add without trainer", trainer.AddToTeam{DexID: 1}, false},
		{"remove", trainer.RemoveFromTeam{Trainer: "ash", DexID: 1}, true},
		{"remove dex zero", trainer.RemoveFromTeam{Trainer: "ash"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, poke.ErrValidationFailed)
		})
	}
}

func TestParseSex(t *testing.T) {
	sex, err := trainer.ParseSex("Female")
	require.NoError(t, err)
	assert.Equal(t, trainer.Female, sex)

	_, err = trainer.ParseSex("robot")
	assert.Error(t, err)
}

func TestRegisterHandlers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bus := poke.NewCommandBus(poke.WithMiddleware(poke.ValidationMiddleware()))
	trainer.RegisterHandlers(bus, f.dispatcher)

	for _, cmdType := range []string{"StartAdventure", "AddToTeam", "RemoveFromTeam"} {
		assert.True(t, bus.HasHandler(cmdType), cmdType)
	}

	res, err := bus.Dispatch(ctx, trainer.StartAdventure{Name: "ash", Sex: trainer.Male})
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.Equal(t, "ash", res.AggregateID)
	assert.Equal(t, int64(1), res.Version)

	state, ok := res.Data.(poke.State[trainer.Trainer])
	require.True(t, ok)
	assert.True(t, state.IsInitialized())

	_, err = bus.Dispatch(ctx, trainer.AddToTeam{Trainer: "ash"})
	assert.ErrorIs(t, err, poke.ErrValidationFailed)
	assert.Equal(t, 1, f.adapter.EventCount())
}
