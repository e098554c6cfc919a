package enrich

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/extract"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/network"
	"github.com/jimezsa/jobfinder/internal/scraper"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const bodyHintRunes = 8000

// Page is a fetched detail page, parsed once and shared by every job that
// points at it.
type Page struct {
	Jobs            []models.Job
	MetaDescription string
	Text            string
}

// Rule fills blank fields of one source's jobs from their detail pages.
type Rule struct {
	Source     string
	DefaultCap int
	// Needs reports whether a job is missing data the detail page can supply.
	Needs func(job models.Job) bool
	// Apply fills job from page. page is nil when the fetch failed.
	Apply func(job *models.Job, page *Page)
}

type cachedPage struct {
	page *Page
	err  error
}

// Enricher runs detail-page rules with a per-URL cache and per-source fetch caps.
type Enricher struct {
	fetcher network.Fetcher
	profile config.Profile
	logger  zerolog.Logger
	rules   map[string]Rule
	cache   map[string]cachedPage
	fetched map[string]int
}

func New(fetcher network.Fetcher, profile config.Profile, logger zerolog.Logger) *Enricher {
	e := &Enricher{
		fetcher: fetcher,
		profile: profile,
		logger:  logger,
		rules:   map[string]Rule{},
		cache:   map[string]cachedPage{},
		fetched: map[string]int{},
	}
	for _, rule := range DefaultRules() {
		e.rules[textutil.Norm(rule.Source)] = rule
	}
	return e
}

func DefaultRules() []Rule {
	return []Rule{GesinesRule(), StepStoneRule()}
}

// Limit returns how many detail pages may be fetched for source in one run.
func (e *Enricher) Limit(source string) int {
	rule, ok := e.rules[textutil.Norm(source)]
	if !ok {
		return 0
	}
	return e.profile.EnrichLimit(rule.Source, rule.DefaultCap)
}

// Enrich applies the rule registered for source to the matching jobs. Jobs of
// other sources pass through untouched. Fetch failures come back as warnings.
func (e *Enricher) Enrich(ctx context.Context, jobs []models.Job, source string) ([]models.Job, []string) {
	rule, ok := e.rules[textutil.Norm(source)]
	if !ok {
		return jobs, nil
	}
	limit := e.Limit(source)

	var warnings []string
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if textutil.Norm(job.Source) != textutil.Norm(rule.Source) || !rule.Needs(job) {
			out = append(out, job)
			continue
		}

		cached, hit := e.cache[job.URL]
		if !hit {
			if e.fetched[rule.Source] >= limit {
				out = append(out, job)
				continue
			}
			e.fetched[rule.Source]++
			cached = e.load(ctx, rule, job.URL)
			e.cache[job.URL] = cached
			if cached.err != nil {
				warnings = append(warnings, fmt.Sprintf("%s detail failed (%s): %v", rule.Source, job.URL, cached.err))
			}
		}

		rule.Apply(&job, cached.page)
		out = append(out, job)
	}

	e.logger.Debug().
		Str("source", rule.Source).
		Int("fetched", e.fetched[rule.Source]).
		Int("limit", limit).
		Int("warnings", len(warnings)).
		Msg("enrichment done")
	return out, warnings
}

func (e *Enricher) load(ctx context.Context, rule Rule, target string) cachedPage {
	e.logger.Debug().Str("source", rule.Source).Str("url", target).Msg("fetching detail page")
	raw, err := e.fetcher.FetchText(ctx, target)
	if err != nil {
		e.logger.Warn().Err(err).Str("source", rule.Source).Str("url", target).Msg("detail fetch failed")
		return cachedPage{err: err}
	}
	return cachedPage{page: &Page{
		Jobs:            scraper.Structured{}.Parse(raw, rule.Source, target),
		MetaDescription: extract.ExtractMetaDescription(raw),
		Text:            truncateRunes(textutil.StripHTML(raw), bodyHintRunes),
	}}
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// fillBlank sets field only when the job has no value for it yet.
func fillBlank(job *models.Job, field, value string) {
	if isBlank(job.Field(field)) && !isBlank(value) {
		job.SetField(field, value)
	}
}

func truncateRunes(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}
