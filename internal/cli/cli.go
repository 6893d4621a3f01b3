package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/countdown-bot/internal/config"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
	"github.com/pfrederiksen/countdown-bot/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagDataFile string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countdown-bot",
		Short: "Chat bot that counts down the days to upcoming events",
		Long: `A Telegram bot that keeps a shared list of named events and reports
how long until each one. The events subcommands manage the same list from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&flagDataFile, "data-file", "", "Event file (overrides storage.path)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newEventsCmd())

	return cmd
}

// loadConfig reads the configuration and applies flag overrides
func loadConfig() (config.Application, error) {
	app, err := config.Load(flagConfig)
	if err != nil {
		return config.Application{}, err
	}
	if flagDataFile != "" {
		app.Storage.Path = flagDataFile
	}

	level, err := logger.ParseLevel(app.Log.Level)
	if err != nil {
		return config.Application{}, fmt.Errorf("log.level: %w", err)
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return app, nil
}

// openStore opens the configured event file
func openStore(app config.Application) (*storage.Store, error) {
	store, err := storage.New(app.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
