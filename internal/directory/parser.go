package directory

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bierdata/internal/models"
	"bierdata/internal/scraper"
)

var logger = log.New(os.Stdout, "directory: ", log.LstdFlags|log.Lshortfile)

var (
	// Boilerplate cells: pagination text, search UI, site furniture.
	reSkip = regexp.MustCompile(`^(page \d+|\[.*\]|vorige pagina|next page|zoek|search|naam bier|er zijn momenteel|webmaster)`)

	// Beer entries look like "Name (Brewery) trailing annotation".
	reEntry = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)(.*)$`)

	reOutOfProduction = regexp.MustCompile(`(?i)\s*-\s*uit productie`)
)

// ParseCell extracts a beer entry from one table cell's text. Cells
// that are too short, match the boilerplate blocklist, or don't fit the
// "Name (Brewery)" shape are silently dropped.
func ParseCell(cellText string) (models.BelgianBeer, bool) {
	text := strings.TrimSpace(cellText)
	if len(text) < 3 {
		return models.BelgianBeer{}, false
	}
	if reSkip.MatchString(strings.ToLower(text)) {
		return models.BelgianBeer{}, false
	}

	m := reEntry.FindStringSubmatch(text)
	if m == nil {
		return models.BelgianBeer{}, false
	}

	beer := models.BelgianBeer{
		BeerName:         strings.TrimSpace(m[1]),
		Brewery:          strings.TrimSpace(m[2]),
		ProductionStatus: models.StatusInProduction,
		RawText:          cellText,
	}

	remainder := strings.TrimSpace(m[3])
	if strings.Contains(strings.ToLower(remainder), "uit productie") {
		beer.ProductionStatus = models.StatusOutProduction
		remainder = strings.TrimSpace(reOutOfProduction.ReplaceAllString(remainder, ""))
	}
	beer.Notes = remainder

	return beer, true
}

// ExtractPage pulls all unique beer entries from one parsed page.
func ExtractPage(doc *goquery.Document, marker string, keywords []string) []models.BelgianBeer {
	table, reason := scraper.FindDataTable(doc, marker, keywords)
	if reason == scraper.TableNotFound {
		return nil
	}

	var beers []models.BelgianBeer
	seen := make(map[[2]string]struct{})

	table.Find("td").Each(func(_ int, cell *goquery.Selection) {
		beer, ok := ParseCell(strings.TrimSpace(cell.Text()))
		if !ok {
			return
		}
		key := beer.DedupKey()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		beers = append(beers, beer)
	})

	logger.Printf("Extracted %d unique beers from the page", len(beers))
	return beers
}
