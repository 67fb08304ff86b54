// Command aidrugctl is the operator CLI for the dashboard dataset.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aidrug/internal/config"
	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/logging"
)

var flags struct {
	csv      string
	controls string
	verbose  bool
}

var rootCmd = &cobra.Command{
	Use:           "aidrugctl",
	Short:         "Inspect, export and seed the AI drug startup dataset",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, argv []string) {
		level := "warn"
		if flags.verbose {
			level = "debug"
		}
		logging.Setup(level, "text")
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.csv, "csv", "", "dataset CSV file (default: DATASET_PATH)")
	pf.StringVar(&flags.controls, "controls", "", "controls YAML file (default: built-in)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(seedCmd, summaryCmd, exportCmd, controlsCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.csv != "" {
		cfg.Dataset.Path = flags.csv
	}
	if flags.controls != "" {
		cfg.Dataset.ControlsFile = flags.controls
	}
	return cfg, nil
}

func loadControls(cfg *config.Config) (*controls.Controls, error) {
	if cfg.Dataset.ControlsFile == "" {
		return controls.Default(), nil
	}
	return controls.Load(cfg.Dataset.ControlsFile)
}

// loadCSV reads the CSV dataset named by cfg. The CLI always reads the
// file; Postgres is only a seed target.
func loadCSV(cfg *config.Config) (*core.Dataset, error) {
	ds, err := core.LoadCSVFile(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("dataset loaded", "path", cfg.Dataset.Path, "companies", ds.Len())
	return ds, nil
}
