package directory

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"bierdata/internal/config"
	"bierdata/internal/models"
)

var rePageOf = regexp.MustCompile(`Pagina\s+\d+\s+van\s+(\d+)`)

// Paginate derives the crawl state from a fetched page: the total page
// count from the localized "Pagina X van Y" text, and the next-page URL
// from the anchor whose text matches nextText. Relative links are
// resolved against baseURL.
func Paginate(doc *goquery.Document, baseURL, nextText string) models.Pagination {
	p := models.Pagination{TotalPages: 1}

	if m := rePageOf.FindStringSubmatch(doc.Text()); m != nil {
		if total, err := strconv.Atoi(m[1]); err == nil {
			p.TotalPages = total
		}
	}

	reNext := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(nextText))
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !reNext.MatchString(a.Text()) {
			return true
		}
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		p.NextURL = resolveURL(baseURL, href)
		p.HasNext = true
		return false
	})

	if p.HasNext {
		logger.Printf("Next page found: %s", p.NextURL)
	} else {
		logger.Println("No more pages found")
	}
	return p
}

func resolveURL(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// PageFetcher fetches one listing page.
type PageFetcher interface {
	FetchPage(url string) (*goquery.Document, error)
}

// Crawler walks the directory by following "next page" links,
// accumulating deduplicated beers across pages.
type Crawler struct {
	Fetcher PageFetcher
	Config  config.DirectoryConfig

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

// NewCrawler builds a crawler over the given fetcher and config.
func NewCrawler(f PageFetcher, cfg config.DirectoryConfig) *Crawler {
	return &Crawler{Fetcher: f, Config: cfg, sleep: time.Sleep}
}

// CrawlAll scrapes pages until there is no next link, the max-page cap
// is reached, or a fetch fails. The first fetch failure ends the run;
// whatever was collected so far is returned.
func (c *Crawler) CrawlAll() []models.BelgianBeer {
	var all []models.BelgianBeer
	seen := make(map[[2]string]struct{})

	currentURL := c.Config.BaseURL
	pageCount := 0
	delay := time.Duration(c.Config.DelaySeconds * float64(time.Second))

	for currentURL != "" {
		pageCount++
		if c.Config.MaxPages > 0 && pageCount > c.Config.MaxPages {
			logger.Printf("Reached max page limit of %d", c.Config.MaxPages)
			break
		}

		logger.Printf("--- Scraping page %d ---", pageCount)
		doc, err := c.Fetcher.FetchPage(currentURL)
		if err != nil {
			logger.Printf("Fetch failed, stopping crawl: %v", err)
			break
		}

		newBeers := 0
		for _, beer := range ExtractPage(doc, c.Config.TableMarker, c.Config.Keywords) {
			key := beer.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			beer.BeerID = len(all) + 1
			beer.SourcePage = pageCount
			all = append(all, beer)
			newBeers++
		}
		logger.Printf("Added %d new unique beers. Total unique: %d", newBeers, len(all))

		p := Paginate(doc, c.Config.BaseURL, c.Config.NextPageText)
		currentURL = p.NextURL

		if currentURL != "" && (c.Config.MaxPages == 0 || pageCount < c.Config.MaxPages) {
			c.sleep(delay)
		}
	}

	logger.Printf("Crawl complete. Found %d total unique beers from %d pages", len(all), pageCount)
	return all
}

// Summary aggregates a finished crawl for the end-of-run report.
type Summary struct {
	TotalBeers      int
	UniqueBreweries int
	TopBreweries    []BreweryCount
	StatusCounts    map[string]int
}

// BreweryCount pairs a brewery with its beer count.
type BreweryCount struct {
	Brewery string
	Count   int
}

// Summarize computes crawl statistics: unique breweries, the top
// breweries by beer count, and production status totals.
func Summarize(beers []models.BelgianBeer, topN int) Summary {
	counts := make(map[string]int)
	statuses := make(map[string]int)
	for _, b := range beers {
		counts[b.Brewery]++
		statuses[b.ProductionStatus]++
	}

	top := make([]BreweryCount, 0, len(counts))
	for brewery, n := range counts {
		top = append(top, BreweryCount{Brewery: brewery, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Brewery < top[j].Brewery
	})
	if len(top) > topN {
		top = top[:topN]
	}

	return Summary{
		TotalBeers:      len(beers),
		UniqueBreweries: len(counts),
		TopBreweries:    top,
		StatusCounts:    statuses,
	}
}
