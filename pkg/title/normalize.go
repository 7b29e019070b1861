// Package title normalizes movie and series titles and matches them fuzzily.
package title

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanRegex matches II-IX after a space. A leading numeral ("VII Days") and
// the single letters I and X ("American History X") are left alone.
var romanRegex = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// trailingYear matches a release year at the end of a query, optionally in parentheses.
var trailingYear = regexp.MustCompile(`\s*\(?((?:19|20)\d{2})\)?\s*$`)

// Fold lower-cases s for caseless comparison and composes it to NFC, so
// "AMÉLIE" and "amélie" fold to the same string.
func Fold(s string) string {
	// Casers carry state; one per call keeps Fold safe for concurrent use.
	return norm.NFC.String(cases.Fold().String(s))
}

// Clean reduces a title to a comparison form: folded case, no accents,
// no leading article, Roman numerals as digits, no punctuation.
func Clean(s string) string {
	s = Fold(s)
	s = romanRegex.ReplaceAllStringFunc(s, func(m string) string {
		if n, ok := romanToArabic[strings.TrimSpace(m)]; ok {
			return " " + n
		}
		return m
	})
	s = stripAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	// "Léon: The Professional" - each colon part may carry its own article.
	parts := strings.Split(s, ":")
	for i, p := range parts {
		parts[i] = stripArticle(strings.TrimSpace(p))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

func stripArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

// SplitYear separates a trailing release year from a query such as
// "Inception 2010" or "Alien (1979)". Year is 0 when none is present or
// when the query is only a year.
func SplitYear(query string) (string, int) {
	m := trailingYear.FindStringSubmatchIndex(query)
	if m == nil {
		return strings.TrimSpace(query), 0
	}
	rest := strings.TrimSpace(query[:m[0]])
	if rest == "" {
		return strings.TrimSpace(query), 0
	}
	year, _ := strconv.Atoi(query[m[2]:m[3]])
	return rest, year
}

// NormalizeQuery collapses whitespace in a free-text search query.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
