package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/titanic/config"
	"github.com/YuminosukeSato/titanic/pkg/log"
)

// NewRootCmd creates the root command for titanic.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "titanic",
		Short: "Train and run the titanic survival classifier",
		Long: `titanic trains a logistic regression pipeline that predicts passenger
survival from the raw titanic data, and scores new passenger records with
a saved pipeline.

Configuration is read from --config, ./config.yml, or the built-in default
in that order. Logs are written to stderr as JSON lines.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides log_level in the configuration")

	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewPredictCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration selected by the global flags and installs
// the default logger. It returns the configuration and where it was read from.
func setup(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, "", err
	}

	cfg, source, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}

	if level == "" {
		level = cfg.App.LogLevel
	}
	if level == "" {
		level = "info"
	}
	if err := log.SetupLogger(level, cmd.ErrOrStderr()); err != nil {
		return nil, "", err
	}
	log.GetLogger().Debug("configuration loaded", log.ComponentKey, "cli", "source", source)
	return cfg, source, nil
}
