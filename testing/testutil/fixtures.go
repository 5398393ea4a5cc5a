package testutil

import "github.com/AshkanYarmoradi/go-poke/pokemon"

// Bulbasaur returns #1.
func Bulbasaur() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          1,
		Name:           "bulbasaur",
		Type:           pokemon.Double(pokemon.ElementGrass, pokemon.ElementPoison),
		Height:         7,
		Weight:         69,
		BaseExperience: 64,
		Stats:          pokemon.Stats{Speed: 45, SpecialDefense: 65, SpecialAttack: 65, Defense: 49, Attack: 49, HitPoints: 45},
	}
}

// Charmander returns #4.
func Charmander() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          4,
		Name:           "charmander",
		Type:           pokemon.Single(pokemon.ElementFire),
		Height:         6,
		Weight:         85,
		BaseExperience: 62,
		Stats:          pokemon.Stats{Speed: 65, SpecialDefense: 50, SpecialAttack: 60, Defense: 43, Attack: 52, HitPoints: 39},
	}
}

// Charizard returns #6.
func Charizard() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          6,
		Name:           "charizard",
		Type:           pokemon.Double(pokemon.ElementFire, pokemon.ElementFlying),
		Height:         17,
		Weight:         905,
		BaseExperience: 267,
		Stats:          pokemon.Stats{Speed: 100, SpecialDefense: 85, SpecialAttack: 109, Defense: 78, Attack: 84, HitPoints: 78},
	}
}

// Squirtle returns #7.
func Squirtle() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          7,
		Name:           "squirtle",
		Type:           pokemon.Single(pokemon.ElementWater),
		Height:         5,
		Weight:         90,
		BaseExperience: 63,
		Stats:          pokemon.Stats{Speed: 43, SpecialDefense: 64, SpecialAttack: 50, Defense: 65, Attack: 48, HitPoints: 44},
	}
}

// Pikachu returns #25.
func Pikachu() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          25,
		Name:           "pikachu",
		Type:           pokemon.Single(pokemon.ElementElectric),
		Height:         4,
		Weight:         60,
		BaseExperience: 112,
		Stats:          pokemon.Stats{Speed: 90, SpecialDefense: 50, SpecialAttack: 50, Defense: 40, Attack: 55, HitPoints: 35},
	}
}

// Machop returns #66.
func Machop() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          66,
		Name:           "machop",
		Type:           pokemon.Single(pokemon.ElementFighting),
		Height:         8,
		Weight:         195,
		BaseExperience: 61,
		Stats:          pokemon.Stats{Speed: 35, SpecialDefense: 35, SpecialAttack: 35, Defense: 50, Attack: 80, HitPoints: 70},
	}
}

// Mewtwo returns #150.
func Mewtwo() pokemon.Pokemon {
	return pokemon.Pokemon{
		DexID:          150,
		Name:           "mewtwo",
		Type:           pokemon.Single(pokemon.ElementPsychic),
		Height:         20,
		Weight:         1220,
		BaseExperience: 340,
		Stats:          pokemon.Stats{Speed: 130, SpecialDefense: 90, SpecialAttack: 154, Defense: 90, Attack: 110, HitPoints: 106},
	}
}

// Pokedex returns every fixture, ordered by dex number.
func Pokedex() []pokemon.Pokemon {
	return []pokemon.Pokemon{Bulbasaur(), Charmander(), Charizard(), Squirtle(), Pikachu(), Machop(), Mewtwo()}
}
