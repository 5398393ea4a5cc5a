// Package commands provides the CLI command implementations for poke.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AshkanYarmoradi/go-poke/cli/config"
	"github.com/AshkanYarmoradi/go-poke/cli/styles"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	noColor    bool
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	return config.Load(g.configPath)
}

// NewRootCommand creates the root command for the poke CLI
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "poke",
		Short: "Pokédex and trainer service",
		Long: styles.Title.Render(styles.IconBall+" poke") + `

poke serves Pokémon data from PokeAPI through an in-memory cache and
keeps trainers and their teams in an event log.

` + styles.Title.Render("Quick Start:") + `

  ` + styles.Highlight.Render("poke web") + `            Start the HTTP server
  ` + styles.Highlight.Render("poke pokemon 25") + `     Look up a Pokémon
  ` + styles.Highlight.Render("poke diagnose") + `       Check your setup`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				styles.DisableColors()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (default ./"+config.ConfigFileName+")")

	rootCmd.AddCommand(NewWebCommand(flags))
	rootCmd.AddCommand(NewPokemonCommand(flags))
	rootCmd.AddCommand(NewDiagnoseCommand(flags))
	rootCmd.AddCommand(NewVersionCommand(Version, Commit, BuildDate))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(styles.FormatError(err.Error()))
		return err
	}

	return nil
}
