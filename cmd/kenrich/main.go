// Package main provides the kenrich command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kenrich",
		Short: "Key Event enrichment analysis for differential expression results",
		Long: `kenrich tests a filtered set of differentially expressed genes (DEGs)
for overrepresentation in curated Key Event gene sets using one-sided
Fisher exact tests with Benjamini-Hochberg FDR correction.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cobra.OnInitialize(initConfig)

	root.AddCommand(newEnrichCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads ~/.kenrich.yaml and KENRICH_* environment variables.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".kenrich")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("KENRICH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}

// newLogger builds the CLI logger: terse by default, debug with --verbose.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// configFilePath returns the active config file, defaulting to
// ~/.kenrich.yaml when none has been read yet.
func configFilePath() (string, error) {
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".kenrich.yaml"), nil
}
