// Package predicatoagent implements the predicato-agent CLI: scripted demos,
// connection checks, and an interactive chat agent over a temporal knowledge
// graph served by Neo4j and a local LM Studio instance.
package predicatoagent

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundprediction/predicato-agent/pkg/config"
	"github.com/soundprediction/predicato-agent/pkg/logger"
)

var (
	cfgFile string
	envFile string

	rootCmd = &cobra.Command{
		Use:   "predicato-agent",
		Short: "Predicato Agent: temporal knowledge graph demos",
		Long: `Predicato Agent wires the predicato knowledge graph library to a local
LM Studio server and a Neo4j database, and drives it with scripted demos and
an interactive chat agent.

Run 'predicato-agent doctor' first to verify the local setup.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.predicato-agent.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is ./.env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".predicato-agent" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".predicato-agent")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the validated configuration and builds the logger every
// subcommand shares.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.Slog(logger.New(os.Stderr, cfg.Log.Level))
	return cfg, log, nil
}
