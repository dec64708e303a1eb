package analyze

import "strings"

// Normalize strips one leading "http://" or "https://" and one trailing
// slash. Matching is case-sensitive and nothing else is rewritten.
func Normalize(domain string) string {
	if rest, ok := strings.CutPrefix(domain, "https://"); ok {
		domain = rest
	} else if rest, ok := strings.CutPrefix(domain, "http://"); ok {
		domain = rest
	}
	return strings.TrimSuffix(domain, "/")
}
