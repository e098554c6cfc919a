package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jimezsa/jobfinder/internal/textutil"
)

var platformNames = []string{
	"stepstone",
	"meinestadt",
	"jobware",
	"kimeta",
	"jobrapido",
	"indeed",
	"xing",
	"linkedin",
	"stellenanzeigen",
}

// IsPlatformName reports whether an employer name is really the hosting job board.
// Blank names count as platform names.
func IsPlatformName(name string) bool {
	n := textutil.Norm(name)
	if n == "" {
		return true
	}
	for _, platform := range platformNames {
		if strings.Contains(n, platform) {
			return true
		}
	}
	return false
}

var (
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbei\s+(.+)$`),
		regexp.MustCompile(`\s[-|]\s(.+)$`),
		regexp.MustCompile(`\s@\s(.+)$`),
	}
	roleWordPattern      = regexp.MustCompile(`(?i)job|stelle|referent|manager|leitung|projekt|koordination|sachbearbeiter`)
	locationTokenPattern = regexp.MustCompile(`(?i)\b(berlin|potsdam|deutschland|hybrid|remote)\b`)
)

// InferCompanyFromTitle recovers an employer from title text such as
// "Referent bei Acme GmbH" or "Referent - Acme GmbH". The fallback is returned
// when no candidate survives.
func InferCompanyFromTitle(text, fallback string) string {
	raw := textutil.StripHTML(text)
	if raw == "" {
		return fallback
	}

	var candidates []string
	for _, pattern := range companyPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			candidates = append(candidates, strings.TrimSpace(m[1]))
		}
	}

	for _, candidate := range candidates {
		candidate = strings.Trim(textutil.CollapseSpace(candidate), " -|,;")
		if candidate == "" {
			continue
		}
		if roleWordPattern.MatchString(candidate) {
			continue
		}
		if locationTokenPattern.MatchString(candidate) {
			candidate = strings.Trim(locationTokenPattern.ReplaceAllString(candidate, ""), " ,-/")
		}
		if len([]rune(candidate)) >= 2 {
			return candidate
		}
	}
	return fallback
}

// CompanyFromHost names an employer after the URL host, without a leading "www.".
func CompanyFromHost(rawURL, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fallback
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host == "" {
		return fallback
	}
	return host
}
