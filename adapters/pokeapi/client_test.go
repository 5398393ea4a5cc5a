package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const charizardJSON = `{
  "id": 6,
  "name": "charizard",
  "base_experience": 267,
  "height": 17,
  "weight": 905,
  "order": 7,
  "location_area_encounters": "https://pokeapi.co/api/v2/pokemon/6/encounters",
  "stats": [
    {"base_stat": 78, "effort": 0, "stat": {"name": "hp", "url": ""}},
    {"base_stat": 84, "effort": 0, "stat": {"name": "attack", "url": ""}},
    {"base_stat": 78, "effort": 0, "stat": {"name": "defense", "url": ""}},
    {"base_stat": 109, "effort": 3, "stat": {"name": "special-attack", "url": ""}},
    {"base_stat": 85, "effort": 0, "stat": {"name": "special-defense", "url": ""}},
    {"base_stat": 100, "effort": 0, "stat": {"name": "speed", "url": ""}}
  ],
  "types": [
    {"slot": 2, "type": {"name": "flying", "url": ""}},
    {"slot": 1, "type": {"name": "fire", "url": ""}}
  ],
  "moves": [{"move": {"name": "mega-punch", "url": ""}}]
}`

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL + "/"))
}

func TestClient_GetPokemonByID(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the response", func(t *testing.T) {
		var path string
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(charizardJSON))
		})

		root, err := c.GetPokemonByID(ctx, 6)
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Equal(t, "/pokemon/6", path)
		assert.Equal(t, "charizard", root.Name)
		assert.Len(t, root.Stats, 6)
		assert.Len(t, root.Types, 2)
	})

	t.Run("404 is absent", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		root, err := c.GetPokemonByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, root)
	})

	t.Run("other statuses fail", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.GetPokemonByID(ctx, 1)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	})

	t.Run("invalid body fails", func(t *testing.T) {
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		_, err := c.GetPokemonByID(ctx, 1)
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		c := NewClient(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
		_, err := c.GetPokemonByID(ctx, 1)
		assert.ErrorContains(t, err, "request failed")
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.client.Timeout)

	custom := &http.Client{}
	assert.Same(t, custom, NewClient(WithHTTPClient(custom)).client)
}

func TestNewClient_Timeout(t *testing.T) {
	t.Run("applies to the default client", func(t *testing.T) {
		c := NewClient(WithTimeout(time.Second))
		assert.Equal(t, time.Second, c.client.Timeout)
	})

	t.Run("leaves a caller client untouched", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Minute}
		c := NewClient(WithHTTPClient(custom), WithTimeout(time.Second))

		assert.Equal(t, time.Minute, custom.Timeout)
		assert.NotSame(t, custom, c.client)
		assert.Equal(t, time.Second, c.client.Timeout)
	})

	t.Run("order does not matter", func(t *testing.T) {
		custom := &http.Client{}
		c := NewClient(WithTimeout(time.Second), WithHTTPClient(custom))
		assert.Equal(t, time.Second, c.client.Timeout)
		assert.Zero(t, custom.Timeout)
	})

	t.Run("nil client keeps the default", func(t *testing.T) {
		var c *Client
		require.NotPanics(t, func() {
			c = NewClient(WithHTTPClient(nil), WithTimeout(time.Second))
		})
		require.NotNil(t, c.client)
		assert.Equal(t, time.Second, c.client.Timeout)
	})
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("maps to the domain model", func(t *testing.T) {
		repo := NewRepository(newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(charizardJSON))
		}))

		p, err := repo.Get(ctx, 6)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pokemon.Pokemon{
			DexID:          6,
			Name:           "charizard",
			Type:           pokemon.Double(pokemon.ElementFire, pokemon.ElementFlying),
			Height:         17,
			Weight:         905,
			BaseExperience: 267,
			Stats: pokemon.Stats{
				Speed:          100,
				SpecialDefense: 85,
				SpecialAttack:  109,
				Defense:        78,
				Attack:         84,
				HitPoints:      78,
			},
		}, *p)
	})

	t.Run("absent", func(t *testing.T) {
		repo := NewRepository(newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		p, err := repo.Get(ctx, 0)
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("unmappable", func(t *testing.T) {
		repo := NewRepository(newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": 1, "name": "missingno", "types": []}`))
		}))

		p, err := repo.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrMalformedPokemon)
		assert.Nil(t, p)
	})
}

func TestRoot_ToPokemon(t *testing.T) {
	named := func(names ...string) []TypeSlot {
		slots := make([]TypeSlot, len(names))
		for i, n := range names {
			slots[i] = TypeSlot{Slot: int64(i + 1), Type: NamedAPIResource{Name: n}}
		}
		return slots
	}

	tests := []struct {
		name    string
		types   []TypeSlot
		want    pokemon.Type
		wantErr bool
	}{
		{"single", named("electric"), pokemon.Single(pokemon.ElementElectric), false},
		{"double", named("grass", "poison"), pokemon.Double(pokemon.ElementGrass, pokemon.ElementPoison), false},
		{"fighting alias", named("fighting"), pokemon.Single(pokemon.ElementFighting), false},
		{"fight", named("fight"), pokemon.Single(pokemon.ElementFighting), false},
		{"no type", nil, pokemon.Type{}, true},
		{"three types", named("fire", "water", "grass"), pokemon.Type{}, true},
		{"unknown element", named("shadow"), pokemon.Type{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Root{Name: "x", Types: tt.types}.ToPokemon()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPokemon)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Type)
		})
	}

	t.Run("unknown stats are ignored", func(t *testing.T) {
		p, err := Root{
			Types: named("normal"),
			Stats: []Stat{
				{BaseStat: 5, Stat: NamedAPIResource{Name: "accuracy"}},
				{BaseStat: 40, Stat: NamedAPIResource{Name: "hp"}},
			},
		}.ToPokemon()
		require.NoError(t, err)
		assert.Equal(t, pokemon.Stats{HitPoints: 40}, p.Stats)
	})

	outOfRange := []struct {
		name string
		root Root
	}{
		{"negative height", Root{Name: "x", Types: named("normal"), Height: -1}},
		{"oversized weight", Root{Name: "x", Types: named("normal"), Weight: 1 << 32}},
		{"negative base experience", Root{Name: "x", Types: named("normal"), BaseExperience: -5}},
		{"negative id", Root{Name: "x", Types: named("normal"), ID: -25}},
		{"negative stat", Root{Name: "x", Types: named("normal"), Stats: []Stat{{BaseStat: -1, Stat: NamedAPIResource{Name: "hp"}}}}},
		{"oversized stat", Root{Name: "x", Types: named("normal"), Stats: []Stat{{BaseStat: 70000, Stat: NamedAPIResource{Name: "speed"}}}}},
	}
	for _, tt := range outOfRange {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.root.ToPokemon()
			assert.ErrorIs(t, err, ErrMalformedPokemon)
		})
	}

	t.Run("upper bounds are accepted", func(t *testing.T) {
		p, err := Root{
			Types:  named("normal"),
			Weight: 1<<32 - 1,
			Stats:  []Stat{{BaseStat: 65535, Stat: NamedAPIResource{Name: "attack"}}},
		}.ToPokemon()
		require.NoError(t, err)
		assert.Equal(t, uint32(1<<32-1), p.Weight)
		assert.Equal(t, uint16(65535), p.Stats.Attack)
	})
}
