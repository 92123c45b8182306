package scraper

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var logger = log.New(os.Stdout, "scraper: ", log.LstdFlags|log.Lshortfile)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher retrieves and parses listing pages over plain HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a fetcher with the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchPage downloads a page and parses it into a goquery document.
// A non-2xx status is an error; callers treat any error as the end of
// the current run, there are no retries.
func (f *Fetcher) FetchPage(url string) (*goquery.Document, error) {
	logger.Printf("Fetching page: %s", url)

	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	logger.Printf("Parsed page with %d HTML elements", doc.Find("*").Length())
	return doc, nil
}
