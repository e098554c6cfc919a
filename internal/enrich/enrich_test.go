package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
)

type fakeFetcher struct {
	pages map[string]string
	calls map[string]int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: map[string]int{}}
}

func (f *fakeFetcher) FetchText(_ context.Context, target string) (string, error) {
	f.calls[target]++
	page, ok := f.pages[target]
	if !ok {
		return "", errors.New("connection refused")
	}
	return page, nil
}

const gesinesDetail = `<html><head>
<meta name="description" content="Spannende Aufgabe im Team Politik.">
<script type="application/ld+json">
{"@type":"JobPosting","title":"Referent Politik (m/w/d)","hiringOrganization":{"name":"Stiftung Zukunft"},
 "jobLocation":{"@type":"Place","address":{"@type":"PostalAddress","addressLocality":"Berlin"}},
 "datePosted":"2026-10-01"}
</script></head><body>Standort Berlin</body></html>`

func TestGesinesFillsBlankFieldsOnly(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{"https://gesinesjobtipps.de/job/1": gesinesDetail})
	enricher := New(fetcher, config.DefaultProfile(), zerolog.Nop())

	jobs := []models.Job{
		{Source: "GesinesJobtipps", Title: "Referent Politik (m/w/d)", Company: "GesinesJobtipps", URL: "https://gesinesjobtipps.de/job/1", Description: "Original"},
		{Source: "Arbeitnow", Title: "Other", URL: "https://x.de/1"},
	}

	out, warnings := enricher.Enrich(context.Background(), jobs, "GesinesJobtipps")
	require.Empty(t, warnings)
	require.Len(t, out, 2)

	got := out[0]
	assert.Equal(t, "Stiftung Zukunft", got.Company)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, "2026-10-01", got.PublishedAt)
	assert.Equal(t, "Original", got.Description)
	assert.Equal(t, jobs[1], out[1])
	assert.Equal(t, "", jobs[0].Location, "input slice must not be modified")
}

func TestGesinesMetaAndTextFallbacks(t *testing.T) {
	page := `<html><head><meta name="description" content="Wir suchen Verstärkung."></head>
<body><p>Arbeitsort: Potsdam</p></body></html>`
	fetcher := newFakeFetcher(map[string]string{"https://gesinesjobtipps.de/job/2": page})
	enricher := New(fetcher, config.DefaultProfile(), zerolog.Nop())

	jobs := []models.Job{{Source: "GesinesJobtipps", Title: "Referent", Company: "GesinesJobtipps", URL: "https://gesinesjobtipps.de/job/2"}}
	out, warnings := enricher.Enrich(context.Background(), jobs, "GesinesJobtipps")
	require.Empty(t, warnings)

	assert.Equal(t, "Wir suchen Verstärkung.", out[0].Description)
	assert.Equal(t, "Potsdam", out[0].Location)
	assert.Equal(t, "gesinesjobtipps.de", out[0].Company)
}

func TestFetchFailureBecomesWarning(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	enricher := New(fetcher, config.DefaultProfile(), zerolog.Nop())

	job := models.Job{Source: "GesinesJobtipps", Title: "Referent", Company: "Acme", URL: "https://gesinesjobtipps.de/job/3"}
	out, warnings := enricher.Enrich(context.Background(), []models.Job{job, job}, "GesinesJobtipps")

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "GesinesJobtipps detail failed")
	assert.Contains(t, warnings[0], "connection refused")
	assert.Equal(t, job, out[0])
	assert.Equal(t, 1, fetcher.calls["https://gesinesjobtipps.de/job/3"])
}

func TestEnrichRespectsCap(t *testing.T) {
	profile := config.DefaultProfile()
	profile.MaxEnrich = map[string]int{"GesinesJobtipps": 1}
	fetcher := newFakeFetcher(map[string]string{
		"https://gesinesjobtipps.de/job/a": gesinesDetail,
		"https://gesinesjobtipps.de/job/b": gesinesDetail,
	})
	enricher := New(fetcher, profile, zerolog.Nop())
	assert.Equal(t, 1, enricher.Limit("gesinesjobtipps"))

	jobs := []models.Job{
		{Source: "GesinesJobtipps", Title: "Referent Politik (m/w/d)", URL: "https://gesinesjobtipps.de/job/a"},
		{Source: "GesinesJobtipps", Title: "Referent Politik (m/w/d)", URL: "https://gesinesjobtipps.de/job/b"},
	}
	out, _ := enricher.Enrich(context.Background(), jobs, "GesinesJobtipps")

	assert.Equal(t, "Berlin", out[0].Location)
	assert.Equal(t, "", out[1].Location)
	assert.Equal(t, 0, fetcher.calls["https://gesinesjobtipps.de/job/b"])
}

func TestStepStoneRule(t *testing.T) {
	detail := `<script type="application/ld+json">
{"@type":"JobPosting","title":"Referent (m/w/d)","hiringOrganization":{"name":"Verband Digital e.V."},
 "jobLocation":{"@type":"Place","address":{"addressLocality":"Berlin"}},"datePosted":"2026-10-10","description":"Aufgaben"}
</script>`
	fetcher := newFakeFetcher(map[string]string{"https://www.stepstone.de/stellenangebote--Referent-123.html": detail})
	enricher := New(fetcher, config.DefaultProfile(), zerolog.Nop())

	jobs := []models.Job{
		{Source: "StepStone", Title: "Referent (m/w/d)", Company: "StepStone", URL: "https://www.stepstone.de/stellenangebote--Referent-123.html"},
		{Source: "StepStone", Title: "Listing", Company: "StepStone", URL: "https://www.stepstone.de/work/referent/in-berlin"},
		{Source: "StepStone", Title: "Complete", Company: "Acme", Location: "Berlin", PublishedAt: "2026-10-01", URL: "https://www.stepstone.de/job/9"},
	}
	out, warnings := enricher.Enrich(context.Background(), jobs, "StepStone")
	require.Empty(t, warnings)

	assert.Equal(t, "Verband Digital e.V.", out[0].Company)
	assert.Equal(t, "Berlin", out[0].Location)
	assert.Equal(t, "2026-10-10", out[0].PublishedAt)
	assert.Equal(t, "Aufgaben", out[0].Description)
	assert.Equal(t, jobs[1], out[1])
	assert.Equal(t, jobs[2], out[2])
	assert.Len(t, fetcher.calls, 1)
}

func TestUnknownSourcePassesThrough(t *testing.T) {
	enricher := New(newFakeFetcher(nil), config.DefaultProfile(), zerolog.Nop())
	jobs := []models.Job{{Source: "Remotive", Title: "Remote Referent"}}
	out, warnings := enricher.Enrich(context.Background(), jobs, "Remotive")
	assert.Empty(t, warnings)
	assert.Equal(t, jobs, out)
}
