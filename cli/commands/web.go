package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AshkanYarmoradi/go-poke/api"
	"github.com/AshkanYarmoradi/go-poke/logging"
)

// NewWebCommand creates the web command
func NewWebCommand(flags *globalFlags) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the HTTP server",
		Long: `Start the poke HTTP server.

Settings come from the config file, then POKE_* environment variables,
then the flags below.`,
		Aliases: []string{"serve"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
			}

			logger, err := logging.New(cfg.Log.Mode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(ctx, cfg, logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(context.Background()); err != nil {
					logger.Warn("shutdown", "error", err)
				}
			}()

			server := api.NewServer(cfg.Address(), app.Router, api.WithShutdownTimeout(cfg.Server.ShutdownTimeout))
			logger.Info("starting server",
				"addr", server.Addr(),
				"pokeapi", cfg.PokeAPI.URL,
				"serializer", cfg.EventStore.Serializer,
				"metrics", cfg.Telemetry.MetricsEnabled,
				"tracing", cfg.Telemetry.TracingEnabled,
			)
			if err := server.Run(ctx); err != nil {
				return fmt.Errorf("server: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Interface to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")

	return cmd
}
