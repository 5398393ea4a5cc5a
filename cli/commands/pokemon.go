package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AshkanYarmoradi/go-poke/adapters/pokeapi"
	"github.com/AshkanYarmoradi/go-poke/cli/styles"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// NewPokemonCommand creates the pokemon lookup command
func NewPokemonCommand(flags *globalFlags) *cobra.Command {
	var (
		asJSON  bool
		baseURL string
	)

	cmd := &cobra.Command{
		Use:     "pokemon <dex-id>",
		Short:   "Look up a Pokémon on PokeAPI",
		Aliases: []string{"dex"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pokemon id %q", args[0])
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.PokeAPI.URL = baseURL
			}

			repo := pokeapi.NewRepository(pokeapi.NewClient(
				pokeapi.WithBaseURL(cfg.PokeAPI.URL),
				pokeapi.WithTimeout(cfg.PokeAPI.Timeout),
			))
			p, err := repo.Get(cmd.Context(), pokemon.DexID(id))
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("pokemon #%d not found", id)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPokemon(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the Pokémon as JSON")
	cmd.Flags().StringVar(&baseURL, "url", "", "PokeAPI base URL")

	return cmd
}

func printPokemon(w io.Writer, p *pokemon.Pokemon) {
	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%s #%d %s", styles.IconBall, p.DexID, p.Name)))
	fmt.Fprintln(w, styles.FormatKeyValue("Type", styles.FormatType(p.Type)))
	fmt.Fprintln(w, styles.FormatKeyValue("Height", strconv.FormatUint(uint64(p.Height), 10)))
	fmt.Fprintln(w, styles.FormatKeyValue("Weight", strconv.FormatUint(uint64(p.Weight), 10)))
	fmt.Fprintln(w, styles.FormatKeyValue("Base experience", strconv.FormatUint(uint64(p.BaseExperience), 10)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Bold.Render("Stats"))
	stats := []struct {
		name  string
		value uint16
	}{
		{"HP", p.Stats.HitPoints},
		{"Attack", p.Stats.Attack},
		{"Defense", p.Stats.Defense},
		{"Sp. Attack", p.Stats.SpecialAttack},
		{"Sp. Defense", p.Stats.SpecialDefense},
		{"Speed", p.Stats.Speed},
	}
	for _, s := range stats {
		fmt.Fprintln(w, styles.FormatKeyValue(s.name, strconv.Itoa(int(s.value))))
	}
}
