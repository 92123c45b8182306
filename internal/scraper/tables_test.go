package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse sample HTML: %v", err)
	}
	return doc
}

// bigTable builds a table with n rows, each containing the given text.
func bigTable(n int, cellText, attrs string) string {
	var b strings.Builder
	b.WriteString("<table " + attrs + ">")
	for i := 0; i < n; i++ {
		b.WriteString("<tr><td>" + cellText + "</td></tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func TestFindDataTableByAttribute(t *testing.T) {
	// The marker table is tiny; the attribute match must win anyway.
	html := `<html><body>` +
		bigTable(20, "navigation link", "") +
		bigTable(2, "Duvel (Moortgat)", `bgcolor="#E8E8E8"`) +
		`</body></html>`
	doc := mustDoc(t, html)

	table, reason := FindDataTable(doc, "#E8E8E8", []string{"bier"})
	if reason != FoundByAttribute {
		t.Fatalf("Expected reason %q, got %q", FoundByAttribute, reason)
	}
	if !strings.Contains(table.Text(), "Duvel") {
		t.Errorf("Attribute match selected the wrong table: %q", table.Text())
	}
}

func TestFindDataTableFallback(t *testing.T) {
	// No marker table present: the locator must fall back to the first
	// table with more than 10 rows containing a keyword.
	html := `<html><body>` +
		bigTable(20, "site footer", "") + // big but no keyword
		bigTable(5, "bier bier bier", "") + // keyword but too small
		bigTable(15, "Westmalle Tripel bier", "") +
		`</body></html>`
	doc := mustDoc(t, html)

	table, reason := FindDataTable(doc, "#E8E8E8", []string{"bier", "brouwerij"})
	if reason != FoundByFallback {
		t.Fatalf("Expected reason %q, got %q", FoundByFallback, reason)
	}
	if !strings.Contains(table.Text(), "Westmalle") {
		t.Errorf("Fallback selected the wrong table: %q", table.Text())
	}
}

func TestFindDataTableNotFound(t *testing.T) {
	html := `<html><body>` + bigTable(3, "bier", "") + `</body></html>`
	doc := mustDoc(t, html)

	table, reason := FindDataTable(doc, "", []string{"bier"})
	if reason != TableNotFound {
		t.Fatalf("Expected reason %q, got %q", TableNotFound, reason)
	}
	if table != nil {
		t.Error("Expected a nil selection when no table qualifies")
	}
}

func TestFindDataTableKeywordsCaseInsensitive(t *testing.T) {
	html := `<html><body>` + bigTable(12, "BEER Rating", "") + `</body></html>`
	doc := mustDoc(t, html)

	_, reason := FindDataTable(doc, "", []string{"beer"})
	if reason != FoundByFallback {
		t.Errorf("Keyword match should ignore case, got reason %q", reason)
	}
}
