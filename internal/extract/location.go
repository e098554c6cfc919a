// Package extract turns heterogeneous location and employer representations into
// display strings.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jimezsa/jobfinder/internal/textutil"
)

// UnknownLocation is returned for embedded JSON locations nothing could be read from.
const UnknownLocation = "unknown"

var (
	postalAddressFields = []string{"addressLocality", "addressRegion", "addressCountry"}
	genericFields       = []string{"name", "addressLocality", "addressRegion", "addressCountry"}
)

// embeddedAddressPatterns are the best-effort fallback when an embedded JSON
// location fails to decode.
var embeddedAddressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"streetAddress"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"postalCode"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"addressLocality"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"addressRegion"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"addressCountry"\s*:\s*"([^"]+)"`),
}

// NormalizeLocation renders a location value decoded from JSON (string, list,
// Place, PostalAddress or generic object) as a single display string.
func NormalizeLocation(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return normalizeLocationString(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, NormalizeLocation(item))
		}
		return joinUnique(parts)
	case []string:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, normalizeLocationString(item))
		}
		return joinUnique(parts)
	case map[string]any:
		return normalizeLocationObject(v)
	default:
		return textutil.StripHTML(fmt.Sprint(v))
	}
}

func normalizeLocationString(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return textutil.StripHTML(value)
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return NormalizeLocation(decoded)
	}

	var fields []string
	for _, pattern := range embeddedAddressPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			fields = append(fields, textutil.StripHTML(m[1]))
		}
	}
	if loc := joinUnique(fields); loc != "" {
		return loc
	}
	return UnknownLocation
}

func normalizeLocationObject(value map[string]any) string {
	switch textutil.Norm(stringField(value, "@type")) {
	case "place":
		if address, ok := value["address"]; ok && address != nil && address != "" {
			return NormalizeLocation(address)
		}
		return NormalizeLocation(value["name"])
	case "postaladdress":
		return joinFields(value, postalAddressFields)
	}
	if address, ok := value["address"].(map[string]any); ok {
		if loc := normalizeLocationObject(address); loc != "" {
			return loc
		}
	}
	return joinFields(value, genericFields)
}

func joinFields(value map[string]any, keys []string) string {
	var bits []string
	for _, key := range keys {
		if v := textutil.StripHTML(stringField(value, key)); v != "" {
			bits = append(bits, v)
		}
	}
	return strings.Join(bits, ", ")
}

// stringField reads a scalar field; nested objects contribute their "name".
func stringField(value map[string]any, key string) string {
	switch v := value[key].(type) {
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
	}
	return ""
}

// joinUnique drops blanks and case-insensitive repeats, keeping first-seen order.
func joinUnique(parts []string) string {
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := strings.ToLower(part)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, part)
	}
	return strings.Join(out, ", ")
}

// InferLocationFromText is a coarse city scan used when no structured location exists.
func InferLocationFromText(parts ...string) string {
	text := strings.ToLower(strings.Join(parts, " "))
	switch {
	case strings.Contains(text, "berlin"):
		return "Berlin"
	case strings.Contains(text, "potsdam"):
		return "Potsdam"
	}
	return ""
}
