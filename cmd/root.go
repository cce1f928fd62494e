// Package cmd provides the command-line interface for projectcard.
//
// Configuration precedence, highest first:
//
//	1. Command-line flags (--port, --catalog, ...)
//	2. PROJECTCARD_<SECTION>_<OPTION> environment variables
//	3. The config file: --config, else PROJECTCARD_CONFIG_FILE, else
//	   .projectcard.yml in the working directory
//	4. Built-in defaults
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/projectcard/internal/config"
	"github.com/conneroisu/projectcard/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "projectcard",
	Short: "Render project cards from a catalog of projects",
	Long: `projectcard renders fixed-width project cards from a YAML or JSON catalog:
a title, a description, an image or a generated color banner, and
documentation and social links.

Quick Start:
  projectcard validate            Check projects.yml for mistakes
  projectcard list                List the projects in the catalog
  projectcard render -o out.html  Write a static gallery page
  projectcard serve               Preview the gallery with live reload
  projectcard convert --to json   Print the catalog as JSON`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .projectcard.yml, can also use PROJECTCARD_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
}

// initConfig points viper at the config file and enables PROJECTCARD_
// environment overrides. A missing config file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PROJECTCARD_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".projectcard")
	}

	viper.SetEnvPrefix("PROJECTCARD")
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig binds the command's flags to their config keys and loads the
// merged configuration. A positional catalog argument overrides
// catalog.path.
func loadConfig(cmd *cobra.Command, args []string, bindings map[string]string) (*config.Config, logging.Logger, error) {
	if err := ValidateFileExists(cfgFile); err != nil {
		return nil, nil, fmt.Errorf("invalid --config: %w", err)
	}

	SetViperBindings(cmd, map[string]string{"log-level": "log-level"})
	SetViperBindings(cmd, bindings)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.Catalog.Path = args[0]
	}

	return cfg, cfg.Logger(), nil
}
