package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"bierdata/internal/db"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the cleaned CSV files into the warehouse",
	Long: `Loads every CSV file in the clean data directory into the local SQLite
warehouse, one table per file. Tables are overwritten on every run so
the warehouse mirrors the latest pipeline output.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoad()
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad() {
	appCfg, _ := loadConfigs()

	cleanDir, err := appCfg.CleanDir()
	if err != nil {
		log.Fatalf("Failed to prepare data dir: %v", err)
	}

	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	if err := db.LoadDir(database, cleanDir); err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	log.Println("SUCCESS: Warehouse load complete.")
}
