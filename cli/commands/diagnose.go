package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/AshkanYarmoradi/go-poke/adapters/pokeapi"
	"github.com/AshkanYarmoradi/go-poke/cli/config"
	"github.com/AshkanYarmoradi/go-poke/cli/styles"
)

// diagnosticTimeout bounds each network check.
const diagnosticTimeout = 5 * time.Second

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Run diagnostic checks",
		Long: `Run diagnostic checks on your poke setup.

This command verifies:
  • Configuration validity
  • PokeAPI reachability
  • System resources`,
		Aliases: []string{"diag", "doctor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			runDiagnose(cmd.Context(), cmd.OutOrStdout(), flags)
			return nil
		},
	}
}

func runDiagnose(ctx context.Context, out io.Writer, flags *globalFlags) []CheckResult {
	fmt.Fprintln(out, styles.Title.Render(styles.IconBall+" Running Diagnostics"))

	cfg, cfgErr := flags.loadConfig()
	checks := []DiagnosticCheck{
		{Name: "Go Version", Check: checkGoVersion},
		{Name: "Configuration", Check: func() CheckResult { return checkConfiguration(cfg, cfgErr) }},
		{Name: "PokeAPI", Check: func() CheckResult { return checkPokeAPI(ctx, cfg) }},
		{Name: "System Resources", Check: checkSystemResources},
	}

	results := make([]CheckResult, 0, len(checks))
	allPassed := true

	for _, check := range checks {
		fmt.Fprintf(out, "  %s Checking %s... ", styles.IconArrow, check.Name)

		result := check.Check()
		results = append(results, result)

		switch result.Status {
		case StatusOK:
			fmt.Fprintln(out, styles.SuccessStyle.Render("OK"))
		case StatusWarning:
			fmt.Fprintln(out, styles.WarningStyle.Render("WARNING"))
			allPassed = false
		default:
			fmt.Fprintln(out, styles.ErrorStyle.Render("FAILED"))
			allPassed = false
		}

		if result.Message != "" {
			fmt.Fprintf(out, "    %s\n", styles.Muted.Render(result.Message))
		}
	}

	fmt.Fprintln(out)

	if allPassed {
		fmt.Fprintln(out, styles.FormatSuccess("All checks passed!"))
		return results
	}

	fmt.Fprintln(out, styles.FormatWarning("Some checks failed or have warnings."))
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Bold.Render("Recommendations:"))
	for _, r := range results {
		if r.Recommendation != "" {
			fmt.Fprintf(out, "  %s %s\n", styles.IconArrow, r.Recommendation)
		}
	}
	return results
}

// CheckStatus represents the status of a diagnostic check
type CheckStatus int

const (
	StatusOK CheckStatus = iota
	StatusWarning
	StatusError
)

// CheckResult represents the result of a diagnostic check
type CheckResult struct {
	Name           string
	Status         CheckStatus
	Message        string
	Recommendation string
}

func newCheckResult(name string, status CheckStatus, message string) CheckResult {
	return CheckResult{Name: name, Status: status, Message: message}
}

func (r CheckResult) withRecommendation(rec string) CheckResult {
	r.Recommendation = rec
	return r
}

// DiagnosticCheck represents a diagnostic check function
type DiagnosticCheck struct {
	Name  string
	Check func() CheckResult
}

func checkGoVersion() CheckResult {
	return newCheckResult("Go Version", StatusOK, runtime.Version())
}

func checkConfiguration(cfg *config.Config, loadErr error) CheckResult {
	const name = "Configuration"
	if loadErr != nil {
		return newCheckResult(name, StatusError, fmt.Sprintf("Invalid config: %v", loadErr)).
			withRecommendation("Check " + config.ConfigFileName + " syntax and POKE_* variables")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return newCheckResult(name, StatusWarning, fmt.Sprintf("%d validation errors", len(errs))).
			withRecommendation(errs[0])
	}
	return newCheckResult(name, StatusOK, fmt.Sprintf("Listening on %s, serializer %s", cfg.Address(), cfg.EventStore.Serializer))
}

func checkPokeAPI(ctx context.Context, cfg *config.Config) CheckResult {
	const name = "PokeAPI"
	if cfg == nil {
		return newCheckResult(name, StatusWarning, "Skipped (no configuration)")
	}

	ctx, cancel := context.WithTimeout(ctx, diagnosticTimeout)
	defer cancel()

	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.PokeAPI.URL),
		pokeapi.WithTimeout(diagnosticTimeout),
	)
	start := time.Now()
	root, err := client.GetPokemonByID(ctx, 1)
	if err != nil {
		return newCheckResult(name, StatusError, err.Error()).
			withRecommendation("Check POKE_POKEAPI_URL and network access")
	}
	if root == nil {
		return newCheckResult(name, StatusWarning, "Pokémon #1 not found at "+client.BaseURL()).
			withRecommendation("Point POKE_POKEAPI_URL at a PokeAPI v2 root")
	}
	return newCheckResult(name, StatusOK, fmt.Sprintf("%s answered in %s", client.BaseURL(), time.Since(start).Round(time.Millisecond)))
}

func checkSystemResources() CheckResult {
	const name = "System Resources"
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	allocMB := float64(m.Alloc) / 1024 / 1024
	sysMB := float64(m.Sys) / 1024 / 1024
	message := fmt.Sprintf("Memory: %.1f MB used, %.1f MB total", allocMB, sysMB)

	if allocMB > 500 {
		return newCheckResult(name, StatusWarning, message).withRecommendation("Consider optimizing memory usage")
	}
	return newCheckResult(name, StatusOK, message)
}
