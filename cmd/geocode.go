package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"bierdata/internal/csvio"
	"bierdata/internal/geocode"
	"bierdata/internal/models"
)

// geocodeCmd represents the geocode command
var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve brewery addresses via Nominatim",
	Long: `Reads the cleaned brewery file, geocodes each unique brewery name, and
writes the structured addresses to a CSV file. Breweries the geocoder
cannot resolve keep a row with only the name, so the LLM fallback can
pick them up later.`,
	Run: func(cmd *cobra.Command, args []string) {
		runGeocode()
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

// addressColumns is the shared output layout for both geocoding paths.
func addressColumns(addrs []models.BreweryAddress) []csvio.Column {
	field := func(name string, get func(a models.BreweryAddress) string) csvio.Column {
		return csvio.Column{Name: name, Value: func(i int) (string, bool) {
			v := get(addrs[i])
			return v, v != ""
		}}
	}
	return []csvio.Column{
		{Name: "brewery_name", Value: func(i int) (string, bool) {
			return addrs[i].BreweryName, true
		}},
		field("full_address", func(a models.BreweryAddress) string { return a.FullAddress }),
		field("street", func(a models.BreweryAddress) string { return a.Street }),
		field("number", func(a models.BreweryAddress) string { return a.Number }),
		field("municipality", func(a models.BreweryAddress) string { return a.Municipality }),
		field("postcode", func(a models.BreweryAddress) string { return a.Postcode }),
		field("province", func(a models.BreweryAddress) string { return a.Province }),
		field("latitude", func(a models.BreweryAddress) string { return a.Latitude }),
		field("longitude", func(a models.BreweryAddress) string { return a.Longitude }),
	}
}

func runGeocode() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.Geocode

	cleanDir, err := appCfg.CleanDir()
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}

	// 1. Load unique brewery names
	rows, _, err := csvio.ReadFile(filepath.Join(cleanDir, cfg.InputFile))
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	seen := make(map[string]struct{}, len(rows))
	var breweries []string
	for _, row := range rows {
		name := row["brewery_name"]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		breweries = append(breweries, name)
	}
	log.Printf("Found %d unique breweries to process.", len(breweries))

	// 2. Geocode each one. Misses keep a name-only row so downstream
	// steps can see what is still unresolved.
	client := geocode.NewClient(cfg)
	addrs := make([]models.BreweryAddress, 0, len(breweries))
	found := 0
	for _, name := range breweries {
		addr, ok := client.Lookup(name)
		if !ok {
			addr = models.BreweryAddress{BreweryName: name}
		} else {
			found++
		}
		addrs = append(addrs, addr)
	}
	log.Printf("Geocoded %d of %d breweries.", found, len(addrs))

	// 3. Save CSV
	outPath := filepath.Join(cleanDir, cfg.OutputFile)
	if err := csvio.WriteFile(outPath, len(addrs), addressColumns(addrs)); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("SUCCESS: Saved %d structured brewery addresses to %s", len(addrs), outPath)
}
