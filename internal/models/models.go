package models

import "strings"

// Extraction methods for ranking records. The cell decomposer tags each
// record with the tier that produced it, so downstream consumers can tell
// a structurally parsed record from a best-effort guess.
const (
	ExtractedFromHTML    = "html"
	ExtractedByPattern   = "pattern"
	ExtractedByWordCount = "wordcount"
)

// Production status values used by the directory crawl.
const (
	StatusInProduction  = "In productie"
	StatusOutProduction = "Uit productie"
)

// BeerRecord holds one row of a ranking table. Optional fields use
// pointers so CSV output can omit columns that never parsed rather than
// padding them.
type BeerRecord struct {
	Rank             int
	BeerName         string
	Brewery          string
	Style            string
	ABV              string // percentage string, e.g. "8.5%"
	NumRatings       *int
	AvgRating        *float64
	ExtractionMethod string
}

// BelgianBeer holds one entry from the paginated directory listing.
type BelgianBeer struct {
	BeerID           int
	BeerName         string
	Brewery          string
	ProductionStatus string
	Notes            string
	SourcePage       int
	RawText          string
}

// DedupKey is the lowercased (name, brewery) pair used to collapse
// duplicate entries across pages.
func (b BelgianBeer) DedupKey() [2]string {
	return [2]string{strings.ToLower(b.BeerName), strings.ToLower(b.Brewery)}
}

// Pagination describes the crawl state derived from a single fetched
// page. It is rebuilt fresh per page and never persisted.
type Pagination struct {
	HasNext    bool
	NextURL    string
	TotalPages int
}

// BreweryAddress is the structured geocoding result for one brewery.
// Empty fields mean the geocoder had no data for that component.
type BreweryAddress struct {
	BreweryName  string
	FullAddress  string
	Street       string
	Number       string
	Municipality string
	Postcode     string
	Province     string
	Latitude     string
	Longitude    string
}

// CleanBeer is one row of the cleaned beer file produced by the clean
// pipeline.
type CleanBeer struct {
	BeerName    string
	StyleName   string
	ABVPct      string
	BreweryName string
}

// CleanBrewery is one row of the deduplicated brewery file.
type CleanBrewery struct {
	BreweryName string
	Province    string
}
