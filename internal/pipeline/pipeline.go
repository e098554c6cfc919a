package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/dedupe"
	"github.com/jimezsa/jobfinder/internal/enrich"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/network"
	"github.com/jimezsa/jobfinder/internal/rank"
	"github.com/jimezsa/jobfinder/internal/scraper"
)

type Options struct {
	Logger zerolog.Logger
	// Now is the reference time for ages. Defaults to time.Now.
	Now func() time.Time
	// Sources overrides the registry built from the profile.
	Sources []scraper.Source
	// OnlySources further narrows the sources that are fetched.
	OnlySources []string
}

type Stats struct {
	// Total counts records after deduplication.
	Total      int            `json:"total"`
	Current    int            `json:"current"`
	Ranked     int            `json:"ranked"`
	Fetched    int            `json:"fetched"`
	Duplicates int            `json:"duplicates"`
	Dropped    map[string]int `json:"dropped"`
}

type Result struct {
	RunID    string       `json:"runId"`
	Jobs     []models.Job `json:"jobs"`
	Warnings []string     `json:"warnings"`
	Stats    Stats        `json:"stats"`
}

// Run aggregates every selected source into one ranked list. Source and detail
// fetch failures are reported in Result.Warnings; only an invalid profile or a
// cancelled context fails the run.
func Run(ctx context.Context, profile config.Profile, fetcher network.Fetcher, opts Options) (Result, error) {
	if err := profile.Validate(); err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With().Str("run_id", runID).Logger()
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	sources := opts.Sources
	if sources == nil {
		sources = scraper.Registry(profile)
	}
	sources = scraper.Select(scraper.Select(sources, profile.AllowedSources), opts.OnlySources)

	result := Result{RunID: runID, Warnings: []string{}}

	jobs, warnings, err := fetchSources(ctx, sources, fetcher, profile.Concurrency, logger)
	if err != nil {
		return result, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.Stats.Fetched = len(jobs)

	enricher := enrich.New(fetcher, profile, logger)

	jobs, warnings = enricher.Enrich(ctx, jobs, scraper.SourceGesinesJobtipps)
	result.Warnings = append(result.Warnings, warnings...)

	merged, mergeStats := dedupe.Merge(jobs)
	result.Stats.Duplicates = mergeStats.Duplicates
	merged = rank.WithAges(merged, now())

	merged, warnings = enricher.Enrich(ctx, merged, scraper.SourceStepStone)
	result.Warnings = append(result.Warnings, warnings...)
	merged = rank.WithAges(merged, now())

	if err := ctx.Err(); err != nil {
		return result, err
	}

	outcome := rank.Rank(merged, profile)
	result.Jobs = outcome.Ranked
	result.Stats.Total = len(merged)
	result.Stats.Current = len(outcome.Current)
	result.Stats.Ranked = len(outcome.Ranked)
	result.Stats.Dropped = outcome.Dropped

	for stage, n := range outcome.Dropped {
		if n > 0 {
			logger.Debug().Str("stage", stage).Int("dropped", n).Msg("filter stage")
		}
	}
	logger.Info().
		Int("fetched", result.Stats.Fetched).
		Int("total", result.Stats.Total).
		Int("current", result.Stats.Current).
		Int("ranked", result.Stats.Ranked).
		Int("warnings", len(result.Warnings)).
		Msg("run complete")

	return result, nil
}

type sourceResult struct {
	jobs     []models.Job
	warnings []string
}

// fetchSources fetches sources with at most concurrency in flight. Results are
// stored per source index so the output order is the declaration order.
func fetchSources(ctx context.Context, sources []scraper.Source, fetcher network.Fetcher, concurrency int, logger zerolog.Logger) ([]models.Job, []string, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	slots := make([]sourceResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			jobs, warnings := collectSource(gctx, src, fetcher, logger)
			slots[i] = sourceResult{jobs: jobs, warnings: warnings}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var jobs []models.Job
	var warnings []string
	for _, slot := range slots {
		jobs = append(jobs, slot.jobs...)
		warnings = append(warnings, slot.warnings...)
	}
	return jobs, warnings, nil
}

// collectSource fetches every URL of src, following pagination for parsers
// that support it. A failed URL stops only that URL.
func collectSource(ctx context.Context, src scraper.Source, fetcher network.Fetcher, logger zerolog.Logger) ([]models.Job, []string) {
	var jobs []models.Job
	var warnings []string
	pager := firstPager(src.Parsers)
	maxPages := src.MaxPages
	if maxPages < 1 || pager == nil {
		maxPages = 1
	}

	for _, base := range src.URLs {
		base = strings.TrimSpace(base)
		if base == "" {
			continue
		}
		for page := 1; page <= maxPages; page++ {
			if ctx.Err() != nil {
				return jobs, warnings
			}
			target := base
			if pager != nil {
				target = pager.PageURL(base, page)
			}

			raw, err := fetcher.FetchText(ctx, target)
			if err != nil {
				logger.Warn().Err(err).Str("source", src.Name).Str("url", target).Msg("source fetch failed")
				warnings = append(warnings, fmt.Sprintf("%s failed: %v", src.Name, err))
				break
			}

			before := len(jobs)
			for _, parser := range src.Parsers {
				jobs = append(jobs, parser.Parse(raw, src.Name, target)...)
			}
			logger.Debug().
				Str("source", src.Name).
				Str("url", target).
				Int("records", len(jobs)-before).
				Msg("page parsed")

			if pager == nil || !pager.HasNext(raw) {
				break
			}
		}
	}
	return jobs, warnings
}

func firstPager(parsers []scraper.Parser) scraper.Pager {
	for _, parser := range parsers {
		if pager, ok := parser.(scraper.Pager); ok {
			return pager
		}
	}
	return nil
}
