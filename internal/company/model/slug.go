package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashesRe     = regexp.MustCompile(`-{2,}`)
)

// Slugify derives the URL-safe identifier for a company name.
// The result is deterministic; it may be empty for names without any letters or digits.
func Slugify(name string) string {
	// transform.Chain is stateful, so each call builds its own chain.
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	slug := strings.ToLower(folded)
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = whitespaceRe.ReplaceAllString(slug, "-")
	slug = nonSlugRe.ReplaceAllString(slug, "")
	slug = dashesRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
