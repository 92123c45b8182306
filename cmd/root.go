package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"bierdata/internal/config"
)

// rootCmd is the base command; every pipeline hangs off it.
var rootCmd = &cobra.Command{
	Use:   "bierdata",
	Short: "Beer data collection and cleaning pipelines",
	Long: `bierdata collects Belgian beer and brewery data from ranking sites,
directory listings, and public datasets, then cleans, geocodes, and
loads it into a local warehouse.`,
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfigs loads the env-based app config and the YAML pipeline
// config. A missing YAML file falls back to the built-in defaults; any
// other problem is fatal.
func loadConfigs() (config.AppConfig, *config.PipelineConfig) {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if _, err := os.Stat(appCfg.ConfigPath); os.IsNotExist(err) {
		log.Printf("No config file at %s, using defaults.", appCfg.ConfigPath)
		return appCfg, config.DefaultPipelineConfig()
	}

	pipeCfg, err := config.LoadPipelineConfig(appCfg.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load pipeline config: %v", err)
	}
	return appCfg, pipeCfg
}
