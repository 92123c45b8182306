package cmd

import (
	"log"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"bierdata/internal/cleaner"
	"bierdata/internal/csvio"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize brewery names and split the beer data",
	Long: `Cleans the brewery_name column of the raw beer file with the ordered
normalization rules, enforces data integrity fixes, standardizes
capitalization, and splits the result into a beer file and a
deduplicated brewery file.`,
	Run: func(cmd *cobra.Command, args []string) {
		runClean()
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.Cleaning

	// 1. Load the raw data
	inputPath := filepath.Join(appCfg.DataDir, "raw", cfg.InputFile)
	rows, _, err := csvio.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	log.Printf("Loaded %d rows from %s.", len(rows), inputPath)

	normalizer, err := cleaner.New(cfg)
	if err != nil {
		log.Fatalf("Invalid cleaning config: %v", err)
	}

	// 2. Clean brewery names
	for _, row := range rows {
		row["brewery_name"] = normalizer.Clean(row["brewery_name"])
	}

	// 3. Data integrity fixes. Alken-Maes is headquartered in Limburg;
	// the source data disagrees with itself across rows.
	for _, row := range rows {
		if row["brewery_name"] == "Alken-Maes" {
			row["province"] = "Limburg"
		}
	}

	// 4. Standardize capitalization to the first spelling seen
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row["brewery_name"]
	}
	canonical := cleaner.CanonicalSpelling(names)
	for _, row := range rows {
		row["brewery_name"] = canonical(row["brewery_name"])
	}

	cleanDir, err := appCfg.CleanDir()
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}

	// 5. Beer file keeps one row per input row
	beerPath := filepath.Join(cleanDir, "wiki_be_beers.csv")
	beerCols := make([]csvio.Column, 0, 4)
	for _, name := range []string{"beer_name", "style_name", "abv_pct", "brewery_name"} {
		name := name
		beerCols = append(beerCols, csvio.Column{Name: name, Value: func(i int) (string, bool) {
			v, ok := rows[i][name]
			return v, ok
		}})
	}
	if err := csvio.WriteFile(beerPath, len(rows), beerCols); err != nil {
		log.Fatalf("Failed to save beer file: %v", err)
	}

	// 6. Brewery file deduplicates by name, sorted
	seen := make(map[string]string) // name -> province
	var breweries []string
	for _, row := range rows {
		name := row["brewery_name"]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = row["province"]
		breweries = append(breweries, name)
	}
	sort.Strings(breweries)

	breweryPath := filepath.Join(cleanDir, "wiki_be_breweries.csv")
	breweryCols := []csvio.Column{
		{Name: "brewery_name", Value: func(i int) (string, bool) {
			return breweries[i], true
		}},
		{Name: "province", Value: func(i int) (string, bool) {
			return seen[breweries[i]], seen[breweries[i]] != ""
		}},
	}
	if err := csvio.WriteFile(breweryPath, len(breweries), breweryCols); err != nil {
		log.Fatalf("Failed to save brewery file: %v", err)
	}

	log.Printf("SUCCESS: Saved %d beers and %d unique breweries.", len(rows), len(breweries))
}
