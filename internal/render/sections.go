package render

import (
	"regexp"
	"strings"
)

// Section is one heading of a free-text analysis.
type Section struct {
	Title string
	Body  string
}

// headingRe matches lines that start a new section: a numbered heading
// ("1. COMPANY OVERVIEW") or an all-caps label ("SUMMARY:"), optionally
// behind markdown heading or bold markers.
var headingRe = regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*)?(?:\d+\.|[A-Z][A-Z &/]*:)`)

// SplitSections cuts text before every heading line. The first line of each
// segment is its title and the rest is its body. Text before the first
// heading forms its own segment. The split is cosmetic and lossy.
func SplitSections(text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	starts := []int{0}
	for _, loc := range headingRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			starts = append(starts, loc[0])
		}
	}

	var out []Section
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		seg := strings.TrimSpace(text[start:end])
		if seg == "" {
			continue
		}
		title, body, _ := strings.Cut(seg, "\n")
		out = append(out, Section{
			Title: cleanTitle(title),
			Body:  strings.TrimSpace(body),
		})
	}
	return out
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "# ")
	s = strings.TrimPrefix(s, "**")
	s = strings.TrimSuffix(s, "**")
	return strings.TrimSpace(s)
}
