package cmd

import (
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"bierdata/internal/csvio"
	"bierdata/internal/rankings"
	"bierdata/internal/scraper"
)

// rankingsCmd represents the rankings command
var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Scrape the top-rated beer ranking table",
	Long:  `Fetches the ranking page, locates the data table, parses each ranked beer, and writes the results to a CSV file.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRankings()
	},
}

func init() {
	rootCmd.AddCommand(rankingsCmd)
}

func runRankings() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.Rankings

	// 1. Fetch the page
	var (
		doc *goquery.Document
		err error
	)
	if cfg.FetchMode == "browser" {
		browser, berr := scraper.NewBrowserFetcher()
		if berr != nil {
			log.Fatalf("Failed to launch browser: %v", berr)
		}
		defer browser.Close()
		browser.CookieSelector = cfg.CookieSelector
		doc, err = browser.FetchPage(cfg.BaseURL)
	} else {
		doc, err = scraper.NewFetcher(30 * time.Second).FetchPage(cfg.BaseURL)
	}
	if err != nil {
		log.Fatalf("Failed to fetch %s: %v", cfg.BaseURL, err)
	}

	// 2. Analyze and extract
	rankings.AnalyzePage(doc)
	records := rankings.ExtractAll(doc, cfg.Keywords)
	if len(records) == 0 {
		log.Println("No beers extracted. Exiting.")
		return
	}

	methods := make(map[string]int)
	for _, rec := range records {
		methods[rec.ExtractionMethod]++
	}
	log.Printf("Extraction methods used: %v", methods)

	// 3. Save CSV
	outDir, err := appCfg.RawDir("rankings")
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}
	outPath := filepath.Join(outDir, cfg.OutputFile)

	cols := []csvio.Column{
		{Name: "rank", Value: func(i int) (string, bool) {
			return strconv.Itoa(records[i].Rank), true
		}},
		{Name: "beer_name", Value: func(i int) (string, bool) {
			return records[i].BeerName, true
		}},
		{Name: "brewery", Value: func(i int) (string, bool) {
			return records[i].Brewery, records[i].Brewery != ""
		}},
		{Name: "style", Value: func(i int) (string, bool) {
			return records[i].Style, records[i].Style != ""
		}},
		{Name: "abv", Value: func(i int) (string, bool) {
			return records[i].ABV, records[i].ABV != ""
		}},
		{Name: "num_ratings", Value: func(i int) (string, bool) {
			if records[i].NumRatings == nil {
				return "", false
			}
			return strconv.Itoa(*records[i].NumRatings), true
		}},
		{Name: "avg_rating", Value: func(i int) (string, bool) {
			if records[i].AvgRating == nil {
				return "", false
			}
			return strconv.FormatFloat(*records[i].AvgRating, 'f', -1, 64), true
		}},
		{Name: "extraction_method", Value: func(i int) (string, bool) {
			return records[i].ExtractionMethod, true
		}},
	}
	if err := csvio.WriteFile(outPath, len(records), cols); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("SUCCESS: Saved %d ranked beers to %s", len(records), outPath)
}
