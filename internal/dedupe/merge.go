package dedupe

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

var (
	roleWordPattern  = regexp.MustCompile(`(?i)referent|manager|leitung|projekt|kommunikation|politik|public|koordination|sachbearbeiter|analyst|consultant|coordinator|\blead\b`)
	orgSuffixPattern = regexp.MustCompile(`(?i)gmbh|e\.v\.|\bag\b|\bkg\b|mbh|stiftung|verband|universit`)
	// orgExemptPattern lifts the org-suffix penalty. It is narrower than the
	// role list: "Analyst GmbH" still reads as an employer name.
	orgExemptPattern = regexp.MustCompile(`(?i)referent|manager|leitung|projekt|kommunikation|politik`)
)

// mergeFields are back-filled from siblings, in this order.
var mergeFields = []string{"company", "location", "publishedAt", "description", "url"}

// MergeStats captures counts for one merge pass.
type MergeStats struct {
	TotalInput int
	Duplicates int
	TotalOut   int
}

// TitleQuality rates how much a title looks like a real role title. A title
// that repeats the company name is penalized hard.
func TitleQuality(title, company string) int {
	t := textutil.StripHTML(title)
	c := textutil.StripHTML(company)

	score := 0
	if utf8.RuneCountInString(t) >= 12 {
		score += 2
	}
	if roleWordPattern.MatchString(t) {
		score += 3
	}
	if c != "" && textutil.Norm(t) == textutil.Norm(c) {
		score -= 4
	}
	if orgSuffixPattern.MatchString(t) && !orgExemptPattern.MatchString(t) {
		score -= 2
	}
	return score
}

// Merge collapses jobs sharing a Key into one record per key, in first-seen
// key order.
func Merge(jobs []models.Job) ([]models.Job, MergeStats) {
	stats := MergeStats{TotalInput: len(jobs)}

	order := make([]string, 0, len(jobs))
	groups := make(map[string][]models.Job, len(jobs))
	for _, job := range jobs {
		key := Key(job)
		if _, exists := groups[key]; !exists {
			order = append(order, key)
		}
		groups[key] = append(groups[key], job)
	}

	out := make([]models.Job, 0, len(order))
	for _, key := range order {
		out = append(out, mergeGroup(groups[key]))
	}

	stats.TotalOut = len(out)
	stats.Duplicates = stats.TotalInput - stats.TotalOut
	return out, stats
}

func mergeGroup(group []models.Job) models.Job {
	best := group[0]
	bestQuality := TitleQuality(best.Title, best.Company)
	for _, candidate := range group[1:] {
		if q := TitleQuality(candidate.Title, candidate.Company); q > bestQuality {
			best, bestQuality = candidate, q
		}
	}

	merged := best
	merged.Tags = append([]string(nil), best.Tags...)
	merged.Reasons = append([]string(nil), best.Reasons...)

	for _, sibling := range group {
		for _, field := range mergeFields {
			if strings.TrimSpace(merged.Field(field)) != "" {
				continue
			}
			if value := sibling.Field(field); strings.TrimSpace(value) != "" {
				merged.SetField(field, value)
			}
		}
		merged.Remote = merged.Remote || sibling.Remote
		merged.Tags = unionTags(merged.Tags, sibling.Tags)
	}

	if textutil.Norm(merged.Title) == textutil.Norm(merged.Company) {
		for _, sibling := range group {
			if TitleQuality(sibling.Title, merged.Company) > TitleQuality(merged.Title, merged.Company) {
				merged.Title = sibling.Title
			}
		}
	}

	if merged.Tags == nil {
		merged.Tags = []string{}
	}
	return merged
}

func unionTags(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, tag := range base {
		seen[textutil.Norm(tag)] = struct{}{}
	}
	for _, tag := range extra {
		key := textutil.Norm(tag)
		if key == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		base = append(base, tag)
	}
	return base
}
