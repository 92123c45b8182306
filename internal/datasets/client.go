package datasets

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

var logger = log.New(os.Stdout, "datasets: ", log.LstdFlags|log.Lshortfile)

const defaultAPIBase = "https://www.kaggle.com/api/v1"

// Client talks to the dataset hosting API over plain HTTP.
type Client struct {
	http *resty.Client
}

// NewClient builds an API client. Credentials may be empty; public
// datasets still download without them.
func NewClient(username, key string) *Client {
	c := resty.New().SetBaseURL(defaultAPIBase)
	if username != "" && key != "" {
		c.SetBasicAuth(username, key)
	}
	return &Client{http: c}
}

// DatasetInfo is one search result from the dataset API.
type DatasetInfo struct {
	Ref             string  `json:"ref"`
	Title           string  `json:"title"`
	Subtitle        string  `json:"subtitle"`
	TotalBytes      int64   `json:"totalBytes"`
	DownloadCount   int     `json:"downloadCount"`
	VoteCount       int     `json:"voteCount"`
	UsabilityRating float64 `json:"usabilityRating"`
	SearchTerm      string  `json:"-"`
	IsBeerRelated   bool    `json:"-"`
}

var beerTitleKeywords = []string{"beer", "brewery", "brewing", "ale", "ipa", "stout", "lager", "hops"}

// Search queries the API once per term and merges the results,
// deduplicated by ref and sorted beer-related first, then by download
// count. A failing term is logged and skipped; the batch continues.
func (c *Client) Search(terms []string) []DatasetInfo {
	var all []DatasetInfo
	for _, term := range terms {
		logger.Printf("Searching for datasets with term: %q", term)

		var page []DatasetInfo
		resp, err := c.http.R().
			SetQueryParams(map[string]string{"search": term, "sortBy": "hottest"}).
			SetResult(&page).
			Get("/datasets/list")
		if err != nil {
			logger.Printf("Search for %q failed: %v", term, err)
			continue
		}
		if resp.IsError() {
			logger.Printf("Search for %q returned status %d", term, resp.StatusCode())
			continue
		}

		for _, ds := range page {
			ds.SearchTerm = term
			ds.IsBeerRelated = isBeerRelated(ds.Title, ds.Subtitle)
			if ds.IsBeerRelated || term == "beer" {
				all = append(all, ds)
			}
		}
	}

	return dedupAndRank(all)
}

func isBeerRelated(title, subtitle string) bool {
	text := strings.ToLower(title) + " " + strings.ToLower(subtitle)
	for _, kw := range beerTitleKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func dedupAndRank(datasets []DatasetInfo) []DatasetInfo {
	seen := make(map[string]struct{}, len(datasets))
	unique := datasets[:0]
	for _, ds := range datasets {
		if _, dup := seen[ds.Ref]; dup {
			continue
		}
		seen[ds.Ref] = struct{}{}
		unique = append(unique, ds)
	}

	// Beer-related first, then by download count.
	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].IsBeerRelated != unique[j].IsBeerRelated {
			return unique[i].IsBeerRelated
		}
		return unique[i].DownloadCount > unique[j].DownloadCount
	})
	logger.Printf("Found %d unique beer-related datasets", len(unique))
	return unique
}

// Download fetches a dataset archive into destDir and unpacks it. When
// directURL is set it bypasses the API. Already-populated directories
// are left alone unless force is set.
func (c *Client) Download(ref, directURL, destDir string, force bool) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	if !force && dirHasFiles(destDir) {
		logger.Printf("Dataset %s already exists, skipping download", ref)
		return nil
	}

	archive := filepath.Join(destDir, "dataset.zip")
	req := c.http.R().SetOutput(archive)

	var (
		resp *resty.Response
		err  error
	)
	if directURL != "" {
		resp, err = req.Get(directURL)
	} else {
		resp, err = req.Get("/datasets/download/" + ref)
	}
	if err != nil {
		return fmt.Errorf("failed to download dataset %s: %w", ref, err)
	}
	if resp.IsError() {
		return fmt.Errorf("dataset %s download returned status %d", ref, resp.StatusCode())
	}

	if err := unzip(archive, destDir); err != nil {
		// Some direct URLs serve a bare CSV rather than an archive.
		if strings.HasSuffix(strings.ToLower(resolvedName(directURL, ref)), ".csv") {
			return os.Rename(archive, filepath.Join(destDir, resolvedName(directURL, ref)))
		}
		return fmt.Errorf("failed to unpack dataset %s: %w", ref, err)
	}
	return os.Remove(archive)
}

func resolvedName(directURL, ref string) string {
	if directURL != "" {
		return filepath.Base(directURL)
	}
	return strings.ReplaceAll(ref, "/", "_") + ".csv"
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func unzip(archive, destDir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Flatten; the datasets are shallow and names only matter here.
		dest := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
