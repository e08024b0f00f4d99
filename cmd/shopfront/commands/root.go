package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/data"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "shopfront",
		Short:         "E-commerce account and wish-list backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		NewServeCommand(&configFile),
		NewAdminCommand(&configFile),
		NewVersionCommand(),
	)

	return rootCmd
}

// app holds what every command needs to reach the stores.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	data    *data.Data
	cleanup func()
}

func bootstrap(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	d, err := data.New(ctx, cfg.Data, l)
	if err != nil {
		cleanupLogger()
		return nil, fmt.Errorf("failed to init data: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: l,
		data:   d,
		cleanup: func() {
			if err := d.Close(); err != nil {
				l.Error(context.Background(), "failed to close data", "error", err)
			}
			cleanupLogger()
		},
	}, nil
}
