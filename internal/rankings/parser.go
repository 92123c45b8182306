package rankings

import (
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bierdata/internal/models"
	"bierdata/internal/scraper"
)

var logger = log.New(os.Stdout, "rankings: ", log.LstdFlags|log.Lshortfile)

var reAvgRating = regexp.MustCompile(`^\d+\.\d+$`)

// minRowCells is the minimum cell count for a data row: rank, beer
// info, ratings count, average rating.
const minRowCells = 4

// ParseRow extracts a beer record from a single table row. Rows whose
// first cell is not purely numeric are header or noise rows and return
// (zero, false). A malformed cell in the ratings or average position is
// omitted from the record, never an error.
func ParseRow(row *goquery.Selection) (models.BeerRecord, bool) {
	cells := row.Find("td, th")
	if cells.Length() < minRowCells {
		return models.BeerRecord{}, false
	}

	rankText := strings.TrimSpace(cells.Eq(0).Text())
	rank, err := strconv.Atoi(rankText)
	if err != nil || !isAllDigits(rankText) {
		return models.BeerRecord{}, false
	}

	rec := models.BeerRecord{Rank: rank}

	info := DecomposeCell(cells.Eq(1))
	rec.BeerName = info.BeerName
	rec.Brewery = info.Brewery
	rec.Style = info.Style
	rec.ABV = info.ABV
	rec.ExtractionMethod = info.Method

	ratingsText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(2).Text()), ",", "")
	if isAllDigits(ratingsText) {
		if n, err := strconv.Atoi(ratingsText); err == nil {
			rec.NumRatings = &n
		}
	}

	avgText := strings.TrimSpace(cells.Eq(3).Text())
	if reAvgRating.MatchString(avgText) {
		if avg, err := strconv.ParseFloat(avgText, 64); err == nil {
			rec.AvgRating = &avg
		}
	}

	return rec, true
}

// ExtractAll locates the ranking table and parses every qualifying row.
// A missing table yields an empty slice, not an error; partial
// extraction is always preferred over hard failure.
func ExtractAll(doc *goquery.Document, keywords []string) []models.BeerRecord {
	table, reason := scraper.FindDataTable(doc, "", keywords)
	if reason == scraper.TableNotFound {
		logger.Println("Could not find the ranking table")
		return nil
	}

	rows := table.Find("tr")
	logger.Printf("Processing %d rows from ranking table", rows.Length())

	var records []models.BeerRecord
	rows.Each(func(_ int, row *goquery.Selection) {
		if rec, ok := ParseRow(row); ok {
			records = append(records, rec)
		}
	})

	logger.Printf("Extracted %d beers", len(records))
	return records
}

// PageStructure is a coarse summary of a fetched page, logged before
// extraction to make scrape failures diagnosable after the fact.
type PageStructure struct {
	Title  string
	Tables int
	Links  int
	Rows   []int // per-table row counts
}

// AnalyzePage summarizes the page structure.
func AnalyzePage(doc *goquery.Document) PageStructure {
	ps := PageStructure{
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Tables: doc.Find("table").Length(),
		Links:  doc.Find("a").Length(),
	}
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		ps.Rows = append(ps.Rows, t.Find("tr").Length())
	})
	logger.Printf("Page analysis: title=%q tables=%d links=%d", ps.Title, ps.Tables, ps.Links)
	return ps
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
