package rank

import (
	"regexp"
	"strings"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const (
	StageLookback       = "lookback"
	StageSource         = "source"
	StageStrictLocation = "strict-location"
	StageExclude        = "exclude"
	StageNonJob         = "non-job"
	StageRemoteOnly     = "remote-only"
	StageThreshold      = "threshold"
	StageMaxResults     = "max-results"
)

// Stage is one named keep/drop filter.
type Stage struct {
	Name string
	Keep func(job models.Job) bool
}

// Stages returns the filter chain for profile in evaluation order. Jobs must
// already carry their AgeDays.
func Stages(profile config.Profile) []Stage {
	return []Stage{
		{Name: StageLookback, Keep: func(job models.Job) bool {
			return job.AgeDays <= profile.LookbackDays || job.AgeDays == models.UnknownAge
		}},
		{Name: StageSource, Keep: func(job models.Job) bool {
			return sourceAllowed(profile.AllowedSources, job.Source)
		}},
		{Name: StageStrictLocation, Keep: func(job models.Job) bool {
			return matchesStrictLocations(job, profile.StrictLocations)
		}},
		{Name: StageExclude, Keep: func(job models.Job) bool {
			return len(textutil.ContainsAny(contentHaystack(job), profile.ExcludeKeywords)) == 0
		}},
		{Name: StageNonJob, Keep: func(job models.Job) bool {
			return !IsObviousNonJob(job)
		}},
		{Name: StageRemoteOnly, Keep: func(job models.Job) bool {
			return !profile.RemoteOnly || job.Remote
		}},
	}
}

// Filter runs jobs through stages and counts the drops per stage.
func Filter(jobs []models.Job, stages []Stage) ([]models.Job, map[string]int) {
	dropped := make(map[string]int, len(stages))
	kept := jobs
	for _, stage := range stages {
		next := make([]models.Job, 0, len(kept))
		for _, job := range kept {
			if stage.Keep(job) {
				next = append(next, job)
			}
		}
		dropped[stage.Name] += len(kept) - len(next)
		kept = next
	}
	return kept, dropped
}

func sourceAllowed(allowed []string, source string) bool {
	empty := true
	for _, name := range allowed {
		if textutil.Norm(name) == "" {
			continue
		}
		empty = false
		if textutil.Norm(name) == textutil.Norm(source) {
			return true
		}
	}
	return empty
}

func matchesStrictLocations(job models.Job, locations []string) bool {
	configured := false
	for _, loc := range locations {
		if textutil.Norm(loc) != "" {
			configured = true
			break
		}
	}
	if !configured {
		return true
	}
	haystack := strings.Join([]string{job.Title, job.Location, job.Description, job.URL}, " ")
	return len(textutil.ContainsAny(haystack, locations)) > 0
}

// contentHaystack is the text keywords are matched against.
func contentHaystack(job models.Job) string {
	return strings.Join([]string{
		job.Title,
		job.Company,
		job.Location,
		strings.Join(job.Tags, " "),
		job.Description,
	}, " ")
}

var (
	gesinesPlaceholderTitles = map[string]struct{}{"gesines jobtipps": {}, "gesinesjobtipps": {}}
	gesinesHomepages         = map[string]struct{}{
		"https://gesinesjobtipps.de":                            {},
		"https://gesinesjobtipps.de/jobs":                       {},
		"https://gesinesjobtipps.de/region/berlin-und-umgebung": {},
	}
	bundesportalPrefix  = "bundesportal: erledigen sie ihre behördengänge online"
	boilerplateTitle    = regexp.MustCompile(`(?i)^(passwort vergessen\??|stellensuche|stellenangebote)$`)
	portalNavigationURL = regexp.MustCompile(`(?i)passwort-vergessen|impressum|datenschutz|kontakt|newsletter`)
)

// IsObviousNonJob flags navigation links and portal placeholders that the
// anchor heuristics pick up as postings.
func IsObviousNonJob(job models.Job) bool {
	title := textutil.StripHTML(job.Title)
	source := textutil.Norm(job.Source)
	link := strings.TrimRight(textutil.Norm(job.URL), "/")

	if title == "" {
		return true
	}
	if strings.HasPrefix(strings.ToLower(title), bundesportalPrefix) {
		return true
	}
	if boilerplateTitle.MatchString(title) {
		return true
	}
	switch source {
	case "gesinesjobtipps":
		if _, ok := gesinesPlaceholderTitles[textutil.Norm(title)]; ok {
			return true
		}
		if _, ok := gesinesHomepages[link]; ok {
			return true
		}
	case "karriereportalberlin":
		if portalNavigationURL.MatchString(link) {
			return true
		}
	}
	return false
}
