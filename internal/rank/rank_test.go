package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
)

func profileWith(mutate func(p *config.Profile)) config.Profile {
	p := config.DefaultProfile()
	mutate(&p)
	return p
}

func TestScoreVeto(t *testing.T) {
	profile := profileWith(func(p *config.Profile) {
		p.KeywordsMust = []string{"policy"}
		p.KeywordsNice = []string{"berlin"}
		p.LocationsPreferred = []string{"Berlin"}
	})
	job := models.Job{Title: "Bürokraft Berlin", Location: "Berlin", Remote: true, AgeDays: 1}

	got := Score(job, profile)
	assert.Equal(t, models.VetoScore, got.Score)
	assert.Equal(t, []string{"nice: berlin", "location: Berlin", "remote"}, got.Reasons)
}

func TestScoreWeightsAndReasonOrder(t *testing.T) {
	profile := profileWith(func(p *config.Profile) {
		p.KeywordsMust = []string{"Referent", "Politik"}
		p.KeywordsNice = []string{"public affairs"}
		p.ExcludeKeywords = []string{"praktikum"}
		p.LocationsPreferred = []string{"berlin", "potsdam"}
	})
	job := models.Job{
		Title:       "Referent Public Affairs",
		Location:    "Berlin",
		Description: "Politik und Praktikum",
		Remote:      true,
		AgeDays:     5,
	}

	got := Score(job, profile)
	// 2*5 must + 2 nice + 3 location + 2 remote + 1 recency - 10 exclude
	assert.Equal(t, 8, got.Score)
	assert.Equal(t, []string{
		"must: Referent, Politik",
		"nice: public affairs",
		"location: berlin",
		"remote",
		"exclude: praktikum",
	}, got.Reasons)
}

func TestRecencyBonus(t *testing.T) {
	assert.Equal(t, 2, RecencyBonus(0))
	assert.Equal(t, 2, RecencyBonus(3))
	assert.Equal(t, 1, RecencyBonus(7))
	assert.Equal(t, 0, RecencyBonus(8))
	assert.Equal(t, 0, RecencyBonus(models.UnknownAge))
}

func TestLookbackKeepsUnknownAge(t *testing.T) {
	profile := profileWith(func(p *config.Profile) { p.LookbackDays = 1 })
	jobs := []models.Job{
		{Title: "Unknown date", AgeDays: models.UnknownAge},
		{Title: "Old posting", AgeDays: 30},
		{Title: "Fresh posting", AgeDays: 1},
	}

	kept, dropped := Filter(jobs, Stages(profile))
	require.Len(t, kept, 2)
	assert.Equal(t, "Unknown date", kept[0].Title)
	assert.Equal(t, "Fresh posting", kept[1].Title)
	assert.Equal(t, 1, dropped[StageLookback])
}

func TestFilterStages(t *testing.T) {
	profile := profileWith(func(p *config.Profile) {
		p.AllowedSources = []string{"arbeitnow", "Interamt"}
		p.StrictLocations = []string{"Berlin"}
		p.ExcludeKeywords = []string{"Praktikum"}
		p.RemoteOnly = true
	})
	jobs := []models.Job{
		{Source: "Arbeitnow", Title: "Referent", URL: "https://x.de/berlin/1", Remote: true},
		{Source: "StepStone", Title: "Referent Berlin", Remote: true},
		{Source: "Interamt", Title: "Referent", Location: "Hamburg", Remote: true},
		{Source: "Interamt", Title: "Praktikum Berlin", Remote: true},
		{Source: "Interamt", Title: "Stellenangebote", Location: "Berlin", Remote: true},
		{Source: "Interamt", Title: "Referent Berlin", Remote: false},
	}

	kept, dropped := Filter(jobs, Stages(profile))
	require.Len(t, kept, 1)
	assert.Equal(t, "https://x.de/berlin/1", kept[0].URL)
	assert.Equal(t, 1, dropped[StageSource])
	assert.Equal(t, 1, dropped[StageStrictLocation])
	assert.Equal(t, 1, dropped[StageExclude])
	assert.Equal(t, 1, dropped[StageNonJob])
	assert.Equal(t, 1, dropped[StageRemoteOnly])
}

func TestIsObviousNonJob(t *testing.T) {
	tests := []struct {
		job  models.Job
		want bool
	}{
		{job: models.Job{Title: " "}, want: true},
		{job: models.Job{Source: "GesinesJobtipps", Title: "Gesines Jobtipps"}, want: true},
		{job: models.Job{Source: "GesinesJobtipps", Title: "Referent", URL: "https://gesinesjobtipps.de/jobs/"}, want: true},
		{job: models.Job{Source: "BundService", Title: "Bundesportal: Erledigen Sie Ihre Behördengänge online - Start"}, want: true},
		{job: models.Job{Title: "Passwort vergessen?"}, want: true},
		{job: models.Job{Source: "KarriereportalBerlin", Title: "Referent Senat", URL: "https://www.karriereportal-stellen.berlin.de/impressum.html"}, want: true},
		{job: models.Job{Source: "KarriereportalBerlin", Title: "Referent Senat", URL: "https://www.karriereportal-stellen.berlin.de/stellenangebote/referent-123.html"}, want: false},
		{job: models.Job{Source: "GesinesJobtipps", Title: "Referent", URL: "https://gesinesjobtipps.de/job/referent"}, want: false},
	}

	for _, tt := range tests {
		if got := IsObviousNonJob(tt.job); got != tt.want {
			t.Fatalf("IsObviousNonJob(%+v) = %v, want %v", tt.job, got, tt.want)
		}
	}
}

func TestRankThresholdStableSortAndCap(t *testing.T) {
	profile := profileWith(func(p *config.Profile) {
		p.KeywordsNice = []string{"referent", "politik"}
		p.MinimumScore = 2
		p.MaxResults = 2
	})
	jobs := []models.Job{
		{Source: "A", Title: "Referent eins", AgeDays: models.UnknownAge},
		{Source: "A", Title: "Koch", AgeDays: models.UnknownAge},
		{Source: "B", Title: "Referent Politik", AgeDays: models.UnknownAge},
		{Source: "C", Title: "Referent zwei", AgeDays: models.UnknownAge},
	}

	out := Rank(jobs, profile)
	require.Len(t, out.Ranked, 2)
	assert.Equal(t, "Referent Politik", out.Ranked[0].Title)
	assert.Equal(t, "Referent eins", out.Ranked[1].Title)
	assert.Len(t, out.Current, 4)
	assert.Equal(t, 1, out.Dropped[StageThreshold])
	assert.Equal(t, 1, out.Dropped[StageMaxResults])
}

func TestApplyCaps(t *testing.T) {
	sorted := []models.Job{
		{Source: "StepStone", Title: "s1"},
		{Source: "StepStone", Title: "s2"},
		{Source: "StepStone", Title: "s3"},
		{Source: "Interamt", Title: "i1"},
	}
	caps := func(source string) (int, bool) {
		if source == "StepStone" {
			return 1, true
		}
		return 0, false
	}

	titles := func(jobs []models.Job) []string {
		out := make([]string, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, j.Title)
		}
		return out
	}

	assert.Equal(t, []string{"s1", "i1"}, titles(ApplyCaps(sorted, 2, caps)))
	assert.Equal(t, []string{"s1", "i1", "s2"}, titles(ApplyCaps(sorted, 3, caps)))

	noCaps := func(string) (int, bool) { return 0, false }
	assert.Equal(t, []string{"s1", "s2"}, titles(ApplyCaps(sorted, 2, noCaps)))
}
