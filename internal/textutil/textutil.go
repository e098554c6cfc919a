// Package textutil normalizes scraped markup fragments into plain display text.
package textutil

import (
	"html"
	"regexp"
	"strings"
)

// MaxTitleLength is the rune limit applied by CleanTitle.
const MaxTitleLength = 220

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes tags, unescapes entities and collapses whitespace.
// Passes repeat until the text is stable, so StripHTML(StripHTML(s)) == StripHTML(s)
// even for double-escaped markup.
func StripHTML(value string) string {
	out := stripOnce(value)
	for {
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func stripOnce(value string) string {
	value = html.UnescapeString(value)
	value = tagPattern.ReplaceAllString(value, " ")
	return CollapseSpace(value)
}

// CollapseSpace joins whitespace runs into single spaces and trims the ends.
func CollapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Norm is the case-insensitive comparison form of a value.
func Norm(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormKey lower-cases and collapses whitespace; used for identity keys.
func NormKey(value string) string {
	return strings.ToLower(CollapseSpace(value))
}

type rule struct {
	pattern *regexp.Regexp
	repl    string
}

// titleRules run in order after StripHTML. CSS and script fragments go first;
// portal boilerplate comes last.
var titleRules = []rule{
	{regexp.MustCompile(`(?i)\.[a-z0-9_-]+\{[^}]*\}`), " "},
	{regexp.MustCompile(`(?i)@media\s+[^{]+\{[^}]*\}`), " "},
	{regexp.MustCompile(`(?i)\bvar\s+[a-zA-Z_][a-zA-Z0-9_]*\s*=\s*.*$`), " "},
	{regexp.MustCompile(`(?i)\bdocument\.addEventListener\([^)]*\).*$`), " "},
	{regexp.MustCompile(`(?i)\bwindow\.Livewire.*$`), " "},
	{regexp.MustCompile(`(?i)\btrackImpression\w*.*$`), " "},
	{regexp.MustCompile(`(?i)\bGoodCompany\b.*?(Referent|Manager|Leitung|Projekt|$)`), " ${1}"},
	{regexp.MustCompile(`(?i)\bZu den Ersten gehören\b.*$`), " "},
}

// CleanTitle strips markup and removes injected script, style and promotional
// fragments some portals embed in link labels. The result is cut to
// MaxTitleLength runes at a word boundary.
func CleanTitle(value string) string {
	title := StripHTML(value)
	for _, r := range titleRules {
		title = r.pattern.ReplaceAllString(title, r.repl)
	}
	title = CollapseSpace(title)
	return truncateWords(title, MaxTitleLength)
}

func truncateWords(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// ContainsAny reports the needles found in haystack, compared case-insensitively.
// Blank needles never match. Order and original spelling of needles are kept.
func ContainsAny(haystack string, needles []string) []string {
	hay := strings.ToLower(haystack)
	var hits []string
	for _, needle := range needles {
		n := Norm(needle)
		if n == "" {
			continue
		}
		if strings.Contains(hay, n) {
			hits = append(hits, needle)
		}
	}
	return hits
}
