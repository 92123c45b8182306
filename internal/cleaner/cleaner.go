// Package cleaner normalizes brewery names with a fixed, ordered rule
// pipeline. Later rules operate on the output of earlier ones; changing
// the order changes results and is a breaking change to the
// normalization contract.
package cleaner

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"bierdata/internal/config"
)

var (
	reParenthetical = regexp.MustCompile(`\s*\([^)]*\)?`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

type alias struct {
	re        *regexp.Regexp
	canonical string
	exact     bool
}

// Normalizer applies the cleaning rules. The alias and separator lists
// come from config as ordered data.
type Normalizer struct {
	aliases   []alias
	separator *regexp.Regexp
}

// New compiles the configured alias and separator patterns.
func New(cfg config.CleaningConfig) (*Normalizer, error) {
	n := &Normalizer{}

	for _, a := range cfg.Aliases {
		re, err := regexp.Compile(`(?i)` + a.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid alias pattern %q: %w", a.Pattern, err)
		}
		n.aliases = append(n.aliases, alias{re: re, canonical: a.Canonical, exact: a.Exact})
	}

	if len(cfg.Separators) > 0 {
		combined := `(?i)(?:` + strings.Join(cfg.Separators, "|") + `)`
		re, err := regexp.Compile(combined)
		if err != nil {
			return nil, fmt.Errorf("invalid separator patterns: %w", err)
		}
		n.separator = re
	}

	return n, nil
}

// Clean runs the rule pipeline over a single brewery name.
func (n *Normalizer) Clean(name string) string {
	// Rule 1: trim whitespace and surrounding quotes.
	cleaned := strings.Trim(strings.TrimSpace(name), `"`)

	// Rule 2: canonicalize known brand aliases. An exact alias wins the
	// whole name and short-circuits every later rule.
	for _, a := range n.aliases {
		if !a.re.MatchString(cleaned) {
			continue
		}
		if a.exact {
			return a.canonical
		}
		cleaned = a.re.ReplaceAllString(cleaned, a.canonical)
	}

	// Rule 3: collaborations keep the second comma segment, plain
	// comma lists keep the first.
	if strings.Contains(strings.ToLower(cleaned), "collaboration brew") {
		parts := strings.Split(cleaned, ",")
		if len(parts) > 1 {
			cleaned = parts[1]
		}
	} else if i := strings.Index(cleaned, ","); i >= 0 {
		cleaned = cleaned[:i]
	}

	// Rule 4: truncate at the leftmost separator phrase.
	if n.separator != nil {
		if loc := n.separator.FindStringIndex(cleaned); loc != nil {
			cleaned = cleaned[:loc[0]]
		}
	}

	// Rule 5: strip parenthetical annotations.
	cleaned = reParenthetical.ReplaceAllString(cleaned, "")

	// Rule 6: collapse immediately repeated duplicate words.
	cleaned = collapseDoubledWords(cleaned)

	// Rule 7: trailing punctuation, then the stylized 't prefix.
	cleaned = strings.TrimRight(strings.TrimSpace(cleaned), ")-.,")
	lower := strings.ToLower(cleaned)
	if strings.HasPrefix(lower, "'t ") || strings.HasPrefix(lower, "‘t ") {
		_, size := utf8.DecodeRuneInString(cleaned)
		cleaned = cleaned[size:]
	}

	// Rule 8: collapse internal whitespace.
	return strings.Join(strings.Fields(cleaned), " ")
}

// collapseDoubledWords drops a word that immediately repeats the
// previous one, ignoring case ("Brouwerij Brouwerij Huyghe" becomes
// "Brouwerij Huyghe").
func collapseDoubledWords(s string) string {
	words := reWhitespace.Split(strings.TrimSpace(s), -1)
	if len(words) < 2 {
		return s
	}
	out := words[:1]
	for _, w := range words[1:] {
		if strings.EqualFold(w, out[len(out)-1]) {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// CanonicalSpelling returns a mapper that collapses case variants of
// the same name to the first spelling seen, preserving input order.
func CanonicalSpelling(names []string) func(string) string {
	first := make(map[string]string, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := first[key]; !ok {
			first[key] = name
		}
	}
	return func(name string) string {
		if canonical, ok := first[strings.ToLower(name)]; ok {
			return canonical
		}
		return name
	}
}
