package rank

import (
	"math"
	"strings"
	"time"

	"github.com/jimezsa/jobfinder/internal/models"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05Z07:00",
}

// naiveLayouts carry no zone and are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601-like publication time.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// AgeDays returns whole days since publishedAt, or models.UnknownAge when
// the value is absent or unparseable. Future dates count as zero days.
func AgeDays(publishedAt string, now time.Time) int {
	parsed, ok := ParseTimestamp(publishedAt)
	if !ok {
		return models.UnknownAge
	}
	days := int(math.Floor(now.Sub(parsed).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// WithAges returns a copy of jobs with AgeDays recomputed against now.
func WithAges(jobs []models.Job, now time.Time) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, job := range jobs {
		job.AgeDays = AgeDays(job.PublishedAt, now)
		out[i] = job
	}
	return out
}
