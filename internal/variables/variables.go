// Package variables extracts placeholder names from template bodies.
//
// Two syntaxes are recognized: <<Name>> and the legacy {{Name}}. Names may use
// Latin letters (including the accented À-ÿ range), digits, underscore, period
// and hyphen, with optional whitespace inside the delimiters.
package variables

import "regexp"

var (
	angledRe = regexp.MustCompile(`<<\s*([A-Za-zÀ-ÖØ-öø-ÿ0-9_.\-]+)\s*>>`)
	curlyRe  = regexp.MustCompile(`\{\{\s*([A-Za-zÀ-ÖØ-öø-ÿ0-9_.\-]+)\s*\}\}`)
)

// Extract returns the unique variable names referenced in body, in first-seen
// order. All angled matches are scanned before curly ones, so when the same
// name appears in both syntaxes the angled casing wins. Deduplication is
// case-insensitive and the casing of the first occurrence is preserved.
func Extract(body string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, re := range []*regexp.Regexp{angledRe, curlyRe} {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			name := m[1]
			key := lowerLatin(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ExtractAny mirrors Extract for loosely typed JSON input: anything that is
// not a string yields an empty list, never an error.
func ExtractAny(body any) []string {
	s, ok := body.(string)
	if !ok {
		return []string{}
	}
	return Extract(s)
}

// lowerLatin lowercases ASCII letters and the Latin-1 accented letters
// accepted by the placeholder grammar.
func lowerLatin(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case r >= 'A' && r <= 'Z':
			rs[i] = r + ('a' - 'A')
		case r >= 'À' && r <= 'Ö', r >= 'Ø' && r <= 'Þ':
			rs[i] = r + 0x20
		}
	}
	return string(rs)
}
