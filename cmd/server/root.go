package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/config"
)

type options struct {
	port  string
	store string
	lock  string
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:          "hotel-server",
		Short:        "Hotel reservation API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}

	root.PersistentFlags().StringVar(&opts.port, "port", "", "HTTP port (overrides API_PORT)")
	root.PersistentFlags().StringVar(&opts.store, "store", "", "store backend: postgres or memory (overrides STORE)")
	root.PersistentFlags().StringVar(&opts.lock, "lock", "", "room lock backend: local or redis (overrides LOCK_BACKEND)")

	root.AddCommand(serveCmd(&opts))
	root.AddCommand(migrateCmd(&opts))
	return root
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, *opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

// loadConfig reads the environment, applies flag overrides and builds the
// process logger.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.port
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = opts.store
	}
	if cmd.Flags().Changed("lock") {
		cfg.LockBackend = opts.lock
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
