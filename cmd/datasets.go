package cmd

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bierdata/internal/datasets"
)

var datasetsForce bool

// datasetsCmd represents the datasets command
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Download and score public beer datasets",
	Long:  `Searches the dataset API for beer-related datasets, downloads the configured references, analyzes their CSV contents, and writes a quality report.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDatasets()
	},
}

func init() {
	datasetsCmd.Flags().BoolVar(&datasetsForce, "force", false, "re-download datasets that already exist locally")
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets() {
	appCfg, pipeCfg := loadConfigs()
	cfg := pipeCfg.Datasets

	client := datasets.NewClient(appCfg.KaggleUsername, appCfg.KaggleKey)

	// 1. Search for candidates, for the record
	found := client.Search(cfg.SearchTerms)
	for i, ds := range found {
		if i >= 10 {
			break
		}
		log.Printf("  %s (%d downloads, usability %.2f)", ds.Ref, ds.DownloadCount, ds.UsabilityRating)
	}

	outDir, err := appCfg.RawDir("datasets")
	if err != nil {
		log.Fatalf("Failed to prepare output dir: %v", err)
	}

	// 2. Download and analyze the configured references
	var reports []datasets.DatasetReport
	for _, ref := range cfg.Refs {
		destDir := filepath.Join(outDir, strings.ReplaceAll(ref.Ref, "/", "_"))
		if err := client.Download(ref.Ref, ref.URL, destDir, datasetsForce); err != nil {
			log.Printf("Download of %s failed, skipping: %v", ref.Ref, err)
			reports = append(reports, datasets.DatasetReport{Ref: ref.Ref, Error: err.Error()})
			continue
		}

		report := datasets.AnalyzeDir(ref.Ref, destDir)
		report.Recommended = report.OverallScore >= cfg.MinQualityScore
		reports = append(reports, report)
	}

	// 3. Save the batch report
	reportPath := filepath.Join(outDir, "dataset_reports.json")
	if err := datasets.WriteReport(reportPath, reports); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	recommended := 0
	for _, r := range reports {
		if r.Recommended {
			recommended++
		}
	}
	log.Printf("SUCCESS: Processed %d datasets, %d recommended (min score %d).",
		len(reports), recommended, cfg.MinQualityScore)
}
