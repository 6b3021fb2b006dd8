// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dataset-review CLI. It loads the
// curated table of mental-health datasets, runs the inclusion funnel and
// reports descriptive statistics of the surviving datasets.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-review/internal/logging"
	"github.com/pdiddy/dataset-review/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// pipelineCfg is the merged configuration: defaults, config file,
	// environment and flags, in increasing precedence.
	pipelineCfg types.PipelineConfig

	logger zerolog.Logger
)

// rootCmd is the base command for the dataset-review CLI.
var rootCmd = &cobra.Command{
	Use:   "dataset-review",
	Short: "Systematic review of mental-health datasets built from social media",
	Long: `dataset-review normalizes a curated spreadsheet of papers that introduce
or reuse mental-health datasets, applies the review's inclusion funnel and
reports descriptive statistics of the surviving datasets.

Runs are recorded in a local SQLite history that the runs subcommand can
list and query.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pipelineCfg = cfg
		logger = logging.New(cfg.Logging)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("path", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dataset-review.yaml or ~/.config/dataset-review/config.yaml)")
	rootCmd.PersistentFlags().String("input", types.DefaultPipelineConfig().Input.Path, "source spreadsheet path or URL")
	rootCmd.PersistentFlags().String("sheet", "", "worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("store-dir", types.DefaultPipelineConfig().Store.Dir, "directory holding the run history database")

	bindFlag("input.path", rootCmd.PersistentFlags().Lookup("input"))
	bindFlag("input.sheet", rootCmd.PersistentFlags().Lookup("sheet"))
	bindFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dataset-review")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dataset-review"))
		}
	}

	viper.SetEnvPrefix("DATASET_REVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// loadConfig overlays viper settings on the default pipeline configuration.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// bindFlag ties a flag to a configuration key so a changed flag overrides
// the config file and environment.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
