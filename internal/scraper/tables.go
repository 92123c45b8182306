package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LocateReason tells which path of the table locator fired.
type LocateReason string

const (
	FoundByAttribute LocateReason = "attribute"
	FoundByFallback  LocateReason = "fallback"
	TableNotFound    LocateReason = "not-found"
)

// minTableRows is the row count below which a table is assumed to be
// site furniture rather than the data table.
const minTableRows = 10

// FindDataTable locates the table holding tabular beer data. When
// marker is non-empty, a table carrying that bgcolor wins outright.
// Otherwise the first table with more than minTableRows rows whose text
// contains any keyword is taken. Ambiguity never errors; it degrades to
// TableNotFound and a nil selection.
func FindDataTable(doc *goquery.Document, marker string, keywords []string) (*goquery.Selection, LocateReason) {
	if marker != "" {
		sel := doc.Find(`table[bgcolor='` + marker + `']`).First()
		if sel.Length() > 0 {
			logger.Println("Identified data table by bgcolor attribute")
			return sel, FoundByAttribute
		}
		logger.Println("No table with the marker attribute, falling back to keyword search")
	}

	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		if table.Find("tr").Length() <= minTableRows {
			return true
		}
		text := strings.ToLower(table.Text())
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				logger.Printf("Identified data table via fallback: table %d", i)
				found = table
				return false
			}
		}
		return true
	})

	if found != nil {
		return found, FoundByFallback
	}

	logger.Println("No suitable data table found on the page")
	return nil, TableNotFound
}
