package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases value, strips diacritics and joins the remaining letter and digit runs
// with single hyphens. "Café Menu!" becomes "cafe-menu".
func Slugify(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// resolveSlug picks the explicit slug when present, otherwise derives one from fallback.
func resolveSlug(explicit, fallback string) (string, error) {
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = fallback
	}
	slug := Slugify(source)
	if slug == "" {
		return "", ErrInvalidSlug
	}
	return slug, nil
}
