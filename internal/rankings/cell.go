package rankings

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bierdata/internal/models"
)

var (
	reABV        = regexp.MustCompile(`(\d+(?:\.\d+)?%)`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// breweryPatterns are tried in priority order by the text fallback.
// Specific house names first, generic suffix shapes last.
var breweryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(.*?)(Toppling Goliath Brewing Company)`),
	regexp.MustCompile(`(?i)(.*?)(3 Floyds Brewing Co\.)`),
	regexp.MustCompile(`(?i)(.*?)(Perennial Artisan Ales)`),
	regexp.MustCompile(`(?i)(.*?)(Cigar City Brewing)`),
	regexp.MustCompile(`(?i)(.*?)(The Alchemist)`),
	regexp.MustCompile(`(?i)(.*?)(Tree House Brewing Company)`),
	regexp.MustCompile(`(?i)(.*?)(\w+\s+Brewing\s+(?:Company|Co\.?))`),
	regexp.MustCompile(`(?i)(.*?)(\w+\s+Brewery)`),
	regexp.MustCompile(`(?i)(.*?)(Brasserie\s+\w+)`),
	regexp.MustCompile(`(?i)(.*?)(Brouwerij\s+\w+)`),
}

// CellInfo is the decomposed content of a beer info cell.
type CellInfo struct {
	BeerName string
	Brewery  string
	Style    string
	ABV      string
	Method   string
}

// DecomposeCell splits a beer info cell into name, brewery, style and
// ABV. The cell normally holds an anchor with the beer name, then
// brewery and style separated by line breaks, with the ABV after a "|"
// delimiter. When the line-break structure is missing it falls back to
// text heuristics; those results are best-effort approximations and are
// tagged as such in Method.
func DecomposeCell(cell *goquery.Selection) CellInfo {
	info := CellInfo{}

	fullText := cell.Text()
	mainPart := fullText
	if before, after, ok := strings.Cut(fullText, " | "); ok {
		mainPart = before
		if m := reABV.FindString(after); m != "" {
			info.ABV = m
		}
	}

	linkName := strings.TrimSpace(cell.Find("a").First().Text())

	html, err := goquery.OuterHtml(cell)
	if err != nil {
		html = ""
	}
	parts := strings.Split(html, "<br/>")

	if len(parts) >= 3 {
		info.Method = models.ExtractedFromHTML
		if linkName != "" {
			info.BeerName = linkName
		} else {
			info.BeerName = fragmentText(parts[0])
		}
		info.Brewery = fragmentText(parts[1])

		style := fragmentText(parts[2])
		if before, _, ok := strings.Cut(style, " | "); ok {
			style = strings.TrimSpace(before)
		}
		info.Style = style
		return info
	}

	fallback := decomposeText(mainPart)
	if linkName != "" {
		fallback.BeerName = linkName
	}
	return fallback
}

// decomposeText is the plain-text fallback for cells without line-break
// structure: first the known brewery patterns, then a purely positional
// word-count split. The word-count split is lossy by design.
func decomposeText(text string) CellInfo {
	clean := strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))

	for _, pat := range breweryPatterns {
		loc := pat.FindStringSubmatchIndex(clean)
		if loc == nil {
			continue
		}
		return CellInfo{
			BeerName: strings.TrimSpace(clean[loc[2]:loc[3]]),
			Brewery:  strings.TrimSpace(clean[loc[4]:loc[5]]),
			Style:    strings.TrimSpace(clean[loc[1]:]),
			Method:   models.ExtractedByPattern,
		}
	}

	words := strings.Fields(clean)
	info := CellInfo{Method: models.ExtractedByWordCount}
	switch {
	case len(words) > 7:
		info.BeerName = strings.Join(words[:4], " ")
		info.Brewery = strings.Join(words[4:7], " ")
		info.Style = strings.Join(words[7:], " ")
	case len(words) > 4:
		info.BeerName = strings.Join(words[:4], " ")
		info.Brewery = strings.Join(words[4:], " ")
	default:
		info.BeerName = clean
	}
	return info
}

// fragmentText strips tags from an HTML fragment and trims the result.
func fragmentText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
