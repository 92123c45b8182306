package datasets

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sampleRows caps how much of a CSV is read for analysis.
const sampleRows = 1000

// csvColumnKeywords flag a column as domain-relevant.
var csvColumnKeywords = []string{
	"beer", "brewery", "brew", "alcohol", "abv", "ibu", "rating", "review",
	"style", "hops", "malt", "yeast", "flavor", "aroma", "appearance",
}

// CSVAnalysis describes one sampled CSV file.
type CSVAnalysis struct {
	Name          string   `json:"name"`
	RowsSampled   int      `json:"rows_sampled"`
	Columns       int      `json:"columns"`
	ColumnNames   []string `json:"column_names"`
	MissingValues int      `json:"missing_values"`
	BeerColumns   []string `json:"beer_related_columns"`
	QualityScore  int      `json:"quality_score"`
}

// FileInfo describes any downloaded file.
type FileInfo struct {
	Name   string       `json:"name"`
	SizeMB float64      `json:"size_mb"`
	CSV    *CSVAnalysis `json:"csv,omitempty"`
}

// DatasetReport is the full per-dataset analysis.
type DatasetReport struct {
	Ref          string     `json:"dataset_ref"`
	Success      bool       `json:"success"`
	Error        string     `json:"error,omitempty"`
	DownloadPath string     `json:"download_path,omitempty"`
	Files        []FileInfo `json:"files,omitempty"`
	TotalSizeMB  float64    `json:"total_size_mb"`
	CSVFiles     int        `json:"csv_files"`
	OverallScore int        `json:"overall_score"`
	Relevance    string     `json:"beer_relevance"`
	Recommended  bool       `json:"recommended"`
}

// AnalyzeCSV samples a CSV file and computes its quality score. The
// score is a heuristic ranking signal, not a correctness check, and is
// always clamped to [0, 100].
func AnalyzeCSV(path string) (CSVAnalysis, error) {
	analysis := CSVAnalysis{Name: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return analysis, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return analysis, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	analysis.Columns = len(header)
	analysis.ColumnNames = header

	for _, col := range header {
		colLower := strings.ToLower(col)
		for _, kw := range csvColumnKeywords {
			if strings.Contains(colLower, kw) {
				analysis.BeerColumns = append(analysis.BeerColumns, col)
				break
			}
		}
	}

	for analysis.RowsSampled < sampleRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged rows are common in these dumps; count and move on.
			continue
		}
		analysis.RowsSampled++
		for _, v := range rec {
			if strings.TrimSpace(v) == "" {
				analysis.MissingValues++
			}
		}
	}

	analysis.QualityScore = qualityScore(len(analysis.BeerColumns), analysis.Columns, analysis.RowsSampled)

	logger.Printf("CSV analysis for %s: %d cols, %d rows, quality: %d",
		analysis.Name, analysis.Columns, analysis.RowsSampled, analysis.QualityScore)
	return analysis, nil
}

// qualityScore combines domain-column relevance (capped at 60), column
// richness (capped at 20), and data volume.
func qualityScore(beerCols, totalCols, rows int) int {
	score := min(beerCols*20, 60)
	score += min(totalCols*2, 20)
	if rows > 100 {
		score += 20
	} else {
		score += 10
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AnalyzeDir walks a downloaded dataset directory and builds its report.
func AnalyzeDir(ref, dir string) DatasetReport {
	report := DatasetReport{Ref: ref, Success: true, DownloadPath: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Success = false
		report.Error = err.Error()
		return report
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		fi := FileInfo{
			Name:   e.Name(),
			SizeMB: float64(info.Size()) / (1024 * 1024),
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			report.CSVFiles++
			if analysis, err := AnalyzeCSV(filepath.Join(dir, e.Name())); err == nil {
				fi.CSV = &analysis
			} else {
				logger.Printf("Error analyzing %s: %v", e.Name(), err)
			}
		}
		report.TotalSizeMB += fi.SizeMB
		report.Files = append(report.Files, fi)
	}

	report.OverallScore, report.Relevance = assess(report)
	logger.Printf("File analysis complete for %s: %d files, %d CSVs, %.2f MB",
		ref, len(report.Files), report.CSVFiles, report.TotalSizeMB)
	return report
}

// assess scores the dataset as a whole from file format, size, and
// domain relevance of its CSV columns.
func assess(report DatasetReport) (int, string) {
	score := 0
	if report.CSVFiles > 0 {
		score += 30
	}
	if report.TotalSizeMB > 1 {
		score += 20
	} else if report.TotalSizeMB > 0.1 {
		score += 10
	}

	beerFiles, beerCols := 0, 0
	for _, fi := range report.Files {
		if fi.CSV != nil && len(fi.CSV.BeerColumns) > 0 {
			beerFiles++
			beerCols += len(fi.CSV.BeerColumns)
		}
	}

	relevance := "low"
	if beerFiles > 0 {
		score += min(beerFiles*20, 40)
		score += min(beerCols*2, 10)
		if beerCols > 5 {
			relevance = "high"
		} else {
			relevance = "medium"
		}
	}
	return clampScore(score), relevance
}

// WriteReport saves the batch report as JSON next to the data.
func WriteReport(path string, reports []DatasetReport) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Printf("Saved dataset report to %s", path)
	return nil
}
