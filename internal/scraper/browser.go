package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// BrowserFetcher retrieves pages through a headless browser. Some
// ranking sites block plain HTTP clients, so fetch_mode: browser routes
// through a stealth page instead.
type BrowserFetcher struct {
	browser *rod.Browser

	// CookieSelector, when set, names a consent button to click away
	// before reading the page.
	CookieSelector string
}

// NewBrowserFetcher launches a headless browser.
func NewBrowserFetcher() (*BrowserFetcher, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}
	return &BrowserFetcher{
		browser: rod.New().ControlURL(u).MustConnect(),
	}, nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() {
	if b.browser != nil {
		b.browser.MustClose()
	}
}

// FetchPage navigates to the URL, waits for the DOM to settle, and
// parses the rendered HTML.
func (b *BrowserFetcher) FetchPage(url string) (*goquery.Document, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("Panic recovered in FetchPage: %v", r)
			page.MustClose()
			panic(r)
		}
	}()

	page = page.Timeout(90 * time.Second)
	logger.Printf("Navigating to: %s", url)
	page.MustNavigate(url)
	page.MustWaitStable()

	if sel := b.CookieSelector; sel != "" {
		logger.Printf("Looking for cookie button: %s", sel)
		// Try to find and click, but don't fail the fetch if it's missing
		_ = rod.Try(func() {
			page.Timeout(5 * time.Second).MustElement(sel).MustClick()
			page.MustWaitStable()
		})
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	page.MustClose()

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
