package cmd

import (
	"fmt"

	"github.com/jimezsa/jobfinder/internal/dedupe"
	"github.com/jimezsa/jobfinder/internal/export"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/rank"
)

type RankCmd struct {
	Files   []string `arg:"" type:"existingfile" help:"JSON files with job records, e.g. output of parse."`
	Config  string   `help:"Profile file (JSON, JSON5 or YAML). Defaults to the profile in the config directory." type:"path"`
	Out     string   `help:"Write the report to a file; the extension picks md, json, csv or tsv."`
	JSONOut string   `name:"json-out" help:"Write the ranked list as JSON to a file."`
	Stats   bool     `help:"Print merge stats."`
	OutputOptions
}

func (r *RankCmd) Run(ctx *Context) error {
	profile, profilePath, err := loadProfile(r.Config)
	if err != nil {
		return err
	}

	var jobs []models.Job
	for _, path := range r.Files {
		batch, err := export.ReadJobs(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		jobs = append(jobs, batch...)
	}

	merged, mergeStats := dedupe.Merge(jobs)
	merged = rank.WithAges(merged, ctx.now())
	outcome := rank.Rank(merged, profile)

	if r.Stats {
		fmt.Fprintf(ctx.Err, "total_input=%d duplicates=%d total_out=%d\n", mergeStats.TotalInput, mergeStats.Duplicates, mergeStats.TotalOut)
	}

	meta := export.ReportMeta{Profile: profilePath, GeneratedAt: ctx.now()}
	if err := writeFiles(ctx, outcome.Ranked, r.Out, r.JSONOut, meta); err != nil {
		return err
	}
	if err := writeStdout(ctx, outcome.Ranked, r.OutputOptions, meta); err != nil {
		return err
	}
	ctx.UI.Summary(len(merged), len(outcome.Current), len(outcome.Ranked))
	return nil
}
