package rank

import (
	"sort"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

// Outcome is the result of filtering and ranking one batch.
type Outcome struct {
	// Current holds the jobs that survived every filter stage, unscored.
	Current []models.Job
	Ranked  []models.Job
	Dropped map[string]int
}

// Rank filters jobs, scores the survivors and returns at most
// profile.MaxResults of them, best first. Jobs must already carry AgeDays.
func Rank(jobs []models.Job, profile config.Profile) Outcome {
	current, dropped := Filter(jobs, Stages(profile))

	scored := make([]models.Job, 0, len(current))
	for _, job := range current {
		job = Score(job, profile)
		if job.Score < profile.MinimumScore {
			dropped[StageThreshold]++
			continue
		}
		scored = append(scored, job)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	ranked := ApplyCaps(scored, profile.MaxResults, profile.SourceCap)
	dropped[StageMaxResults] += len(scored) - len(ranked)

	return Outcome{Current: current, Ranked: ranked, Dropped: dropped}
}

// ApplyCaps truncates sorted to maxResults. Sources with a cap take at most
// that many slots up front; their overflow only fills slots left over.
func ApplyCaps(sorted []models.Job, maxResults int, capFor func(source string) (int, bool)) []models.Job {
	if maxResults < 0 {
		maxResults = 0
	}

	picked := make([]models.Job, 0, len(sorted))
	var rest []models.Job
	used := map[string]int{}
	for _, job := range sorted {
		source := textutil.Norm(job.Source)
		if limit, ok := capFor(job.Source); ok && used[source] >= limit {
			rest = append(rest, job)
			continue
		}
		used[source]++
		picked = append(picked, job)
	}

	if len(picked) > maxResults {
		picked = picked[:maxResults]
	}
	for _, job := range rest {
		if len(picked) >= maxResults {
			break
		}
		picked = append(picked, job)
	}
	return picked
}
