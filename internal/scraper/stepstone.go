package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	stepstoneBase           = "https://www.stepstone.de/jobs"
	stepstoneDefaultKeyword = "politik"
	stepstoneDefaultCity    = "berlin"
)

var (
	stepstoneCityPattern   = regexp.MustCompile(`(?i)berlin|potsdam`)
	stepstoneDetailPattern = regexp.MustCompile(`(?i)stepstone\.de/(job/|stellenangebote)`)
)

// StepStoneSearchURL builds the listing URL for the first must-keyword in the
// preferred Berlin/Potsdam locations.
func StepStoneSearchURL(keywordsMust []string, locationsPreferred []string) string {
	keyword := stepstoneDefaultKeyword
	for _, kw := range keywordsMust {
		if strings.TrimSpace(kw) != "" {
			keyword = kw
			break
		}
	}

	var cities []string
	for _, loc := range locationsPreferred {
		if stepstoneCityPattern.MatchString(loc) {
			if slug := stepstoneSlug(loc); slug != "" {
				cities = append(cities, slug)
			}
		}
	}
	city := strings.Join(cities, "-")
	if city == "" {
		city = stepstoneDefaultCity
	}

	query := stepstoneSlug(keyword)
	if query == "" {
		query = strings.ToLower(strings.TrimSpace(keyword))
	}
	return fmt.Sprintf("%s/%s/in-%s", stepstoneBase, url.PathEscape(query), url.PathEscape(city))
}

// IsStepStoneDetailURL reports whether a URL points at a single StepStone posting.
func IsStepStoneDetailURL(link string) bool {
	return stepstoneDetailPattern.MatchString(link)
}

func stepstoneSlug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
