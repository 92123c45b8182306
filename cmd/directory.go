package cmd

import (
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bierdata/internal/csvio"
	"bierdata/internal/db"
	"bierdata/internal/directory"
	"bierdata/internal/scraper"
)

// directoryCmd represents the directory command
var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Crawl the paginated Belgian beer directory",
	Long:  `Walks the directory listing page by page, extracting and deduplicating beer entries, and writes the full set to a CSV file.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDirectory()
	},
}

func init() {
	rootCmd.AddCommand(directoryCmd)
}

func runDirectory() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.Directory

	// 1. Crawl every page
	fetcher := scraper.NewFetcher(30 * time.Second)
	crawler := directory.NewCrawler(fetcher, cfg)
	beers := crawler.CrawlAll()
	if len(beers) == 0 {
		log.Println("No beers collected. Exiting.")
		return
	}

	// 2. Report crawl statistics
	summary := directory.Summarize(beers, 10)
	log.Printf("Collected %d beers from %d unique breweries.", summary.TotalBeers, summary.UniqueBreweries)
	for status, n := range summary.StatusCounts {
		log.Printf("  %s: %d", status, n)
	}
	for _, bc := range summary.TopBreweries {
		log.Printf("  %s: %d beers", bc.Brewery, bc.Count)
	}

	// 3. Save CSV
	outDir, err := appCfg.RawDir("directory")
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}
	outPath := filepath.Join(outDir, cfg.OutputFile)

	cols := []csvio.Column{
		{Name: "beer_id", Value: func(i int) (string, bool) {
			return strconv.Itoa(beers[i].BeerID), true
		}},
		{Name: "beer_name", Value: func(i int) (string, bool) {
			return beers[i].BeerName, true
		}},
		{Name: "brewery", Value: func(i int) (string, bool) {
			return beers[i].Brewery, true
		}},
		{Name: "production_status", Value: func(i int) (string, bool) {
			return beers[i].ProductionStatus, true
		}},
		{Name: "notes", Value: func(i int) (string, bool) {
			return beers[i].Notes, beers[i].Notes != ""
		}},
		{Name: "source_page", Value: func(i int) (string, bool) {
			return strconv.Itoa(beers[i].SourcePage), true
		}},
		{Name: "raw_text", Value: func(i int) (string, bool) {
			return beers[i].RawText, beers[i].RawText != ""
		}},
	}
	if err := csvio.WriteFile(outPath, len(beers), cols); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("SUCCESS: Saved %d beers to %s", len(beers), outPath)

	// 4. Upsert into the staging table
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	if err := db.EnsureStagingSchema(database); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	count, err := db.UpsertDirectoryBeers(database, beers)
	if err != nil {
		log.Fatalf("Failed to upsert staging data: %v", err)
	}
	log.Printf("Upserted %d staging records.", count)
}
