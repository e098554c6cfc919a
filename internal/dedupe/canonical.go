package dedupe

import (
	"net/url"
	"strings"

	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const keySeparator = "|"

// CanonicalURL returns the dedup form of a posting URL. Values without a
// scheme or host are treated as opaque keys and only lowercased.
func CanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.ToLower(trimmed)
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(parsed.Scheme))
	b.WriteString("://")
	if parsed.User != nil {
		b.WriteString(parsed.User.String())
		b.WriteByte('@')
	}
	b.WriteString(strings.ToLower(parsed.Host))
	b.WriteString(canonicalPath(parsed.EscapedPath()))
	if query := canonicalQuery(parsed.RawQuery); query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}

func canonicalPath(path string) string {
	if path == "" {
		return ""
	}
	stripped := strings.TrimRight(path, "/")
	if stripped == "" {
		return "/"
	}
	return stripped
}

// canonicalQuery drops tracking parameters and re-encodes the rest in their
// original order.
func canonicalQuery(raw string) string {
	if raw == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" || isTrackingParam(key) {
			continue
		}
		kept = append(kept, url.QueryEscape(key)+"="+url.QueryEscape(unescape(value)))
	}
	return strings.Join(kept, "&")
}

func unescape(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	return strings.HasPrefix(lower, "utm_") || lower == "ref"
}

// Key builds the identity of a job: its canonical URL, or the normalized
// title and company when the job has no URL.
func Key(job models.Job) string {
	if canonical := CanonicalURL(job.URL); canonical != "" {
		return canonical
	}
	return textutil.NormKey(job.Title) + keySeparator + textutil.NormKey(job.Company)
}
