// poke is the command-line interface of the poke service.
//
// Usage:
//
//	poke <command> [flags]
//
// Commands:
//
//	web         Start the HTTP server
//	pokemon     Look up a Pokémon on PokeAPI
//	diagnose    Run diagnostic checks on your setup
//	version     Show version information
//
// Examples:
//
//	# Serve on port 8080 with the msgpack event log
//	POKE_SERIALIZER=msgpack poke web -p 8080
//
//	# Print Pikachu as JSON
//	poke pokemon 25 --json
package main

import (
	"os"

	"github.com/AshkanYarmoradi/go-poke/cli/commands"
)

// Build information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.BuildDate = buildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
