package station

import (
	"regexp"
	"strings"
)

var parenQualifier = regexp.MustCompile(`\s*\([^)]*\)`)

// NormalizeName lowercases and collapses whitespace for name comparison.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(s), " ")
}

// StripQualifier removes parenthetical qualifiers, "Frankfurt (Main) Hbf"
// becomes "Frankfurt Hbf". Providers disagree on qualifier spelling far more
// often than on the base name.
func StripQualifier(name string) string {
	return NormalizeName(parenQualifier.ReplaceAllString(name, " "))
}

// NamesOverlap reports whether two station names plausibly refer to the same
// station: after normalization and qualifier stripping, one contains the
// other.
func NamesOverlap(a, b string) bool {
	na, nb := StripQualifier(a), StripQualifier(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
