// Package pokemon holds the Pokémon entity and the read-only repository
// contract used to look one up by its National Pokédex number.
package pokemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DexID is a National Pokédex number.
type DexID = uint32

// Element is a Pokémon type such as fire or water.
type Element string

// Elements known to the domain. The string form is the lowercase name.
const (
	ElementNormal   Element = "normal"
	ElementFighting Element = "fight"
	ElementFlying   Element = "flying"
	ElementPoison   Element = "poison"
	ElementGround   Element = "ground"
	ElementRock     Element = "rock"
	ElementBug      Element = "bug"
	ElementGhost    Element = "ghost"
	ElementSteel    Element = "steel"
	ElementFire     Element = "fire"
	ElementWater    Element = "water"
	ElementGrass    Element = "grass"
	ElementElectric Element = "electric"
	ElementPsychic  Element = "psychic"
	ElementIce      Element = "ice"
	ElementDragon   Element = "dragon"
	ElementDark     Element = "dark"
	ElementFairy    Element = "fairy"
)

var elements = map[Element]struct{}{
	ElementNormal: {}, ElementFighting: {}, ElementFlying: {}, ElementPoison: {},
	ElementGround: {}, ElementRock: {}, ElementBug: {}, ElementGhost: {},
	ElementSteel: {}, ElementFire: {}, ElementWater: {}, ElementGrass: {},
	ElementElectric: {}, ElementPsychic: {}, ElementIce: {}, ElementDragon: {},
	ElementDark: {}, ElementFairy: {},
}

// ErrUnknownElement is returned when a name does not denote an Element.
var ErrUnknownElement = errors.New("pokemon: unknown element")

// ErrInvalidType is returned when a type has no element or more than two.
var ErrInvalidType = errors.New("pokemon: a type has one or two elements")

// ParseElement maps a name to an Element. "fighting" is accepted as an alias.
func ParseElement(name string) (Element, error) {
	if name == "fighting" {
		return ElementFighting, nil
	}
	e := Element(name)
	if _, ok := elements[e]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownElement, name)
	}
	return e, nil
}

// Valid reports whether e is a known element.
func (e Element) Valid() bool {
	_, ok := elements[e]
	return ok
}

// Type is the elemental typing of a Pokémon: a primary element and an
// optional secondary one.
type Type struct {
	Primary   Element
	Secondary Element
}

// Single returns a one-element type.
func Single(e Element) Type {
	return Type{Primary: e}
}

// Double returns a two-element type.
func Double(primary, secondary Element) Type {
	return Type{Primary: primary, Secondary: secondary}
}

// NewType builds a Type from one or two elements.
func NewType(elems ...Element) (Type, error) {
	switch len(elems) {
	case 1:
		return Single(elems[0]), nil
	case 2:
		return Double(elems[0], elems[1]), nil
	default:
		return Type{}, fmt.Errorf("%w, got %d", ErrInvalidType, len(elems))
	}
}

// IsDouble reports whether the type has a secondary element.
func (t Type) IsDouble() bool {
	return t.Secondary != ""
}

// Elements returns the elements in slot order.
func (t Type) Elements() []Element {
	if t.IsDouble() {
		return []Element{t.Primary, t.Secondary}
	}
	return []Element{t.Primary}
}

// MarshalJSON encodes a single type as "fire" and a double type as ["fire","flying"].
func (t Type) MarshalJSON() ([]byte, error) {
	if t.IsDouble() {
		return json.Marshal([2]Element{t.Primary, t.Secondary})
	}
	return json.Marshal(t.Primary)
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (t *Type) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		e, err := ParseElement(single)
		if err != nil {
			return err
		}
		*t = Single(e)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("pokemon: decode type: %w", err)
	}
	elems := make([]Element, 0, len(names))
	for _, name := range names {
		e, err := ParseElement(name)
		if err != nil {
			return err
		}
		elems = append(elems, e)
	}
	parsed, err := NewType(elems...)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Stats are the base stats of a species.
type Stats struct {
	Speed          uint16 `json:"speed" msgpack:"speed"`
	SpecialDefense uint16 `json:"special_defense" msgpack:"special_defense"`
	SpecialAttack  uint16 `json:"special_attack" msgpack:"special_attack"`
	Defense        uint16 `json:"defense" msgpack:"defense"`
	Attack         uint16 `json:"attack" msgpack:"attack"`
	HitPoints      uint16 `json:"hit_points" msgpack:"hit_points"`
}

// Pokemon is a species entry of the Pokédex.
type Pokemon struct {
	DexID          DexID  `json:"dex_id" msgpack:"dex_id"`
	Name           string `json:"name" msgpack:"name"`
	Type           Type   `json:"type" msgpack:"type"`
	Height         uint32 `json:"height" msgpack:"height"`
	Weight         uint32 `json:"weight" msgpack:"weight"`
	BaseExperience uint32 `json:"base_experience" msgpack:"base_experience"`
	Stats          Stats  `json:"stats" msgpack:"stats"`
}

// Repository looks up Pokémon by dex number.
//
// Get returns (nil, nil) when the Pokémon does not exist. Implementations must
// be safe for concurrent use.
type Repository interface {
	Get(ctx context.Context, id DexID) (*Pokemon, error)
}

// RepositoryFunc adapts a function to the Repository interface.
type RepositoryFunc func(ctx context.Context, id DexID) (*Pokemon, error)

// Get calls f(ctx, id).
func (f RepositoryFunc) Get(ctx context.Context, id DexID) (*Pokemon, error) {
	return f(ctx, id)
}
