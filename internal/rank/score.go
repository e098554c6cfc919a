package rank

import (
	"strings"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const (
	mustWeight     = 5
	niceWeight     = 2
	locationWeight = 3
	remoteBonus    = 2
	excludePenalty = 10
)

// RecencyBonus rewards postings from the last week.
func RecencyBonus(ageDays int) int {
	switch {
	case ageDays <= 3:
		return 2
	case ageDays <= 7:
		return 1
	}
	return 0
}

// Score returns job with Score and Reasons set. When must-keywords are
// configured and none matches, the score is models.VetoScore.
func Score(job models.Job, profile config.Profile) models.Job {
	haystack := contentHaystack(job)
	must := textutil.ContainsAny(haystack, profile.KeywordsMust)
	nice := textutil.ContainsAny(haystack, profile.KeywordsNice)
	exclude := textutil.ContainsAny(haystack, profile.ExcludeKeywords)
	locations := textutil.ContainsAny(job.Location, profile.LocationsPreferred)

	score := mustWeight*len(must) + niceWeight*len(nice) + locationWeight*len(locations)
	if job.Remote {
		score += remoteBonus
	}
	score += RecencyBonus(job.AgeDays)
	score -= excludePenalty * len(exclude)
	if hasAny(profile.KeywordsMust) && len(must) == 0 {
		score = models.VetoScore
	}

	reasons := []string{}
	if len(must) > 0 {
		reasons = append(reasons, "must: "+strings.Join(must, ", "))
	}
	if len(nice) > 0 {
		reasons = append(reasons, "nice: "+strings.Join(nice, ", "))
	}
	if len(locations) > 0 {
		reasons = append(reasons, "location: "+strings.Join(locations, ", "))
	}
	if job.Remote {
		reasons = append(reasons, "remote")
	}
	if len(exclude) > 0 {
		reasons = append(reasons, "exclude: "+strings.Join(exclude, ", "))
	}

	job.Score = score
	job.Reasons = reasons
	return job
}

func hasAny(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
