package cmd

import (
	"context"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"bierdata/internal/csvio"
	"bierdata/internal/llm"
	"bierdata/internal/models"
)

// llmGeocodeCmd represents the llm-geocode command
var llmGeocodeCmd = &cobra.Command{
	Use:   "llm-geocode",
	Short: "Fill missing brewery addresses with a language model",
	Long: `Reads the geocoded address file, finds breweries the geocoder could not
resolve, and asks the configured language model for each one's
municipality, postcode, and province.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLLMGeocode()
	},
}

func init() {
	rootCmd.AddCommand(llmGeocodeCmd)
}

func runLLMGeocode() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.LLM

	cleanDir, err := appCfg.CleanDir()
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}

	// 1. Find breweries with missing addresses
	inputPath := filepath.Join(cleanDir, pipeCfg.Geocode.OutputFile)
	rows, _, err := csvio.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("Failed to read input (run geocode first): %v", err)
	}

	seen := make(map[string]struct{}, len(rows))
	var missing []string
	for _, row := range rows {
		name := row["brewery_name"]
		if name == "" || row["full_address"] != "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		log.Println("No breweries with missing addresses found. Nothing to do.")
		return
	}
	log.Printf("Found %d unique breweries with missing addresses.", len(missing))

	if cfg.Limit > 0 && len(missing) > cfg.Limit {
		missing = missing[:cfg.Limit]
		log.Printf("Processing the first %d breweries.", cfg.Limit)
	}

	// 2. Query the model
	ctx := context.Background()
	provider, err := llm.NewProvider(ctx, appCfg, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}
	defer provider.Close()

	var addrs []models.BreweryAddress
	for _, name := range missing {
		if addr, ok := llm.Lookup(ctx, provider, name); ok {
			addrs = append(addrs, addr)
		}
	}
	log.Printf("Model resolved %d of %d breweries.", len(addrs), len(missing))
	if len(addrs) == 0 {
		log.Println("No addresses resolved. Exiting.")
		return
	}

	// 3. Save CSV
	outPath := filepath.Join(cleanDir, "llm_brewery_addresses.csv")
	if err := csvio.WriteFile(outPath, len(addrs), addressColumns(addrs)); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("SUCCESS: Saved %d LLM-resolved addresses to %s", len(addrs), outPath)
}
