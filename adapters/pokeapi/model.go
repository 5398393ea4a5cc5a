package pokeapi

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// ErrMalformedPokemon is returned when a response cannot be mapped to a
// pokemon.Pokemon.
var ErrMalformedPokemon = errors.New("pokeapi: malformed pokemon")

// Root is the subset of the /pokemon/{id} response that is read.
type Root struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	BaseExperience         int64      `json:"base_experience"`
	Height                 int64      `json:"height"`
	Weight                 int64      `json:"weight"`
	Order                  int64      `json:"order"`
	LocationAreaEncounters string     `json:"location_area_encounters"`
	Stats                  []Stat     `json:"stats"`
	Types                  []TypeSlot `json:"types"`
}

// Stat is one entry of Root.Stats.
type Stat struct {
	BaseStat int64            `json:"base_stat"`
	Effort   int64            `json:"effort"`
	Stat     NamedAPIResource `json:"stat"`
}

// TypeSlot is one entry of Root.Types.
type TypeSlot struct {
	Slot int64            `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

// NamedAPIResource is a link to another PokeAPI resource.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ToPokemon maps the response to the domain model. Negative or oversized
// numbers are rejected with ErrMalformedPokemon rather than truncated.
func (r Root) ToPokemon() (pokemon.Pokemon, error) {
	typ, err := r.typ()
	if err != nil {
		return pokemon.Pokemon{}, fmt.Errorf("%w: %s: %v", ErrMalformedPokemon, r.Name, err)
	}
	stats, err := r.stats()
	if err != nil {
		return pokemon.Pokemon{}, fmt.Errorf("%w: %s: %v", ErrMalformedPokemon, r.Name, err)
	}

	var fields [4]uint32
	for i, f := range []struct {
		name  string
		value int64
	}{
		{"id", r.ID},
		{"height", r.Height},
		{"weight", r.Weight},
		{"base_experience", r.BaseExperience},
	} {
		if f.value < 0 || f.value > math.MaxUint32 {
			return pokemon.Pokemon{}, fmt.Errorf("%w: %s: %s %d out of range", ErrMalformedPokemon, r.Name, f.name, f.value)
		}
		fields[i] = uint32(f.value)
	}

	return pokemon.Pokemon{
		DexID:          pokemon.DexID(fields[0]),
		Name:           r.Name,
		Type:           typ,
		Height:         fields[1],
		Weight:         fields[2],
		BaseExperience: fields[3],
		Stats:          stats,
	}, nil
}

func (r Root) typ() (pokemon.Type, error) {
	slots := make([]TypeSlot, len(r.Types))
	copy(slots, r.Types)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })

	elems := make([]pokemon.Element, 0, len(slots))
	for _, s := range slots {
		e, err := pokemon.ParseElement(s.Type.Name)
		if err != nil {
			return pokemon.Type{}, err
		}
		elems = append(elems, e)
	}
	return pokemon.NewType(elems...)
}

// Stats missing from the response stay zero. Unknown stat names are ignored.
func (r Root) stats() (pokemon.Stats, error) {
	var s pokemon.Stats
	for _, st := range r.Stats {
		if st.BaseStat < 0 || st.BaseStat > math.MaxUint16 {
			return pokemon.Stats{}, fmt.Errorf("stat %s %d out of range", st.Stat.Name, st.BaseStat)
		}
		v := uint16(st.BaseStat)
		switch st.Stat.Name {
		case "speed":
			s.Speed = v
		case "special-defense":
			s.SpecialDefense = v
		case "special-attack":
			s.SpecialAttack = v
		case "defense":
			s.Defense = v
		case "attack":
			s.Attack = v
		case "hp":
			s.HitPoints = v
		}
	}
	return s, nil
}
