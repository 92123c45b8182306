package datasets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQualityScore(t *testing.T) {
	testCases := []struct {
		name      string
		beerCols  int
		totalCols int
		rows      int
		expected  int
	}{
		{"empty file", 0, 0, 0, 10},
		{"small generic file", 0, 3, 50, 16},
		{"domain columns capped at 60", 10, 5, 50, 80},
		{"column richness capped at 20", 1, 50, 50, 50},
		{"everything maxed stays at 100", 10, 50, 500, 100},
		{"large row bonus", 2, 5, 200, 70},
	}

	for _, tc := range testCases {
		if got := qualityScore(tc.beerCols, tc.totalCols, tc.rows); got != tc.expected {
			t.Errorf("%s: qualityScore(%d, %d, %d) expected %d, got %d",
				tc.name, tc.beerCols, tc.totalCols, tc.rows, tc.expected, got)
		}
	}
}

func TestQualityScoreBounds(t *testing.T) {
	// Whatever the inputs, the score stays inside [0, 100].
	for beerCols := 0; beerCols <= 20; beerCols += 5 {
		for totalCols := 0; totalCols <= 60; totalCols += 15 {
			for _, rows := range []int{0, 99, 101, 100000} {
				got := qualityScore(beerCols, totalCols, rows)
				if got < 0 || got > 100 {
					t.Fatalf("qualityScore(%d, %d, %d) = %d, out of range", beerCols, totalCols, rows, got)
				}
			}
		}
	}
}

func TestAnalyzeCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beers.csv")
	raw := "beer_name,abv,notes\nDuvel,8.5,golden\nOrval,,trappist\nKarmeliet,8.4,\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	analysis, err := AnalyzeCSV(path)
	if err != nil {
		t.Fatalf("AnalyzeCSV failed: %v", err)
	}

	if analysis.Columns != 3 {
		t.Errorf("Columns wrong: got %d", analysis.Columns)
	}
	if analysis.RowsSampled != 3 {
		t.Errorf("RowsSampled wrong: got %d", analysis.RowsSampled)
	}
	if analysis.MissingValues != 2 {
		t.Errorf("MissingValues wrong: got %d", analysis.MissingValues)
	}
	// "beer_name" and "abv" are domain columns, "notes" is not.
	if len(analysis.BeerColumns) != 2 {
		t.Errorf("BeerColumns wrong: got %v", analysis.BeerColumns)
	}
	// 2 domain cols (40) + 3 total cols (6) + small file (10)
	if analysis.QualityScore != 56 {
		t.Errorf("QualityScore wrong: expected 56, got %d", analysis.QualityScore)
	}
}

func TestAnalyzeDirAndAssess(t *testing.T) {
	dir := t.TempDir()
	csvData := "beer_name,brewery,style,abv,rating,ibu\n" +
		strings.Repeat("Duvel,Moortgat,Strong Ale,8.5,4.4,32\n", 150)
	if err := os.WriteFile(filepath.Join(dir, "ratings.csv"), []byte(csvData), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("about"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	report := AnalyzeDir("test/beers", dir)
	if !report.Success {
		t.Fatalf("Report not successful: %s", report.Error)
	}
	if report.CSVFiles != 1 || len(report.Files) != 2 {
		t.Errorf("File counts wrong: csv=%d files=%d", report.CSVFiles, len(report.Files))
	}
	if report.Relevance != "high" {
		t.Errorf("Expected high relevance, got %q", report.Relevance)
	}
	if report.OverallScore < 40 {
		t.Errorf("Expected a strong overall score, got %d", report.OverallScore)
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	reports := []DatasetReport{
		{Ref: "a/b", Success: true, OverallScore: 70, Relevance: "high", Recommended: true},
		{Ref: "c/d", Error: "download failed"},
	}
	if err := WriteReport(path, reports); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	var parsed []DatasetReport
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if len(parsed) != 2 || parsed[0].Ref != "a/b" || !parsed[0].Recommended {
		t.Errorf("Report content wrong: %+v", parsed)
	}
}

func TestIsBeerRelated(t *testing.T) {
	testCases := []struct {
		title    string
		subtitle string
		expected bool
	}{
		{"Beer Reviews", "", true},
		{"Craft Brewery Locations", "US breweries", true},
		{"Wine Quality", "red and white wine", false},
		{"Hops Production", "agriculture data", true},
		{"Car Sales", "", false},
	}
	for _, tc := range testCases {
		if got := isBeerRelated(tc.title, tc.subtitle); got != tc.expected {
			t.Errorf("isBeerRelated(%q, %q): expected %v, got %v", tc.title, tc.subtitle, tc.expected, got)
		}
	}
}
