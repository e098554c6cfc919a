package cmd

import (
	"time"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/export"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/network"
	"github.com/jimezsa/jobfinder/internal/pipeline"
)

type RunCmd struct {
	Config  string  `help:"Profile file (JSON, JSON5 or YAML). Defaults to the profile in the config directory." type:"path"`
	Out     string  `help:"Write the report to a file; the extension picks md, json, csv or tsv."`
	JSONOut string  `name:"json-out" help:"Write the ranked list as JSON to a file."`
	Sources string  `help:"Comma-separated sources to fetch (default: all allowed by the profile)."`
	Proxies string  `help:"Comma-separated proxy URLs." env:"JOBFINDER_PROXIES"`
	Rate    float64 `help:"Requests per second per host; 0 disables the limit." default:"2"`
	OutputOptions
}

func (r *RunCmd) Run(ctx *Context) error {
	profile, profilePath, err := loadProfile(r.Config)
	if err != nil {
		return err
	}

	proxies, err := config.LoadProxies(r.Proxies)
	if err != nil {
		return err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
		ctx.Logger.Debug().Int("proxies", rotator.Len()).Msg("proxy rotation enabled")
	}

	opts := models.FetchOptions{
		Proxies:           proxies,
		Timeout:           time.Duration(profile.FetchTimeoutSeconds) * time.Second,
		RequestsPerSecond: r.Rate,
	}
	client, err := network.NewClient(opts, rotator, network.NewHostLimiter(opts.RequestsPerSecond, 1))
	if err != nil {
		return err
	}

	stop := startIndicator(ctx, "Fetching")
	result, err := pipeline.Run(ctx.context(), profile, client, pipeline.Options{
		Logger:      ctx.Logger,
		Now:         ctx.Now,
		OnlySources: config.SplitCSV(r.Sources),
	})
	if stop != nil {
		stop()
	}
	if err != nil {
		return err
	}

	ctx.UI.Warnings(result.Warnings)
	if ctx.Verbose {
		ctx.UI.Dropped(result.Stats.Dropped)
	}

	meta := export.ReportMeta{Profile: profilePath, GeneratedAt: ctx.now(), Warnings: result.Warnings}
	if err := writeFiles(ctx, result.Jobs, r.Out, r.JSONOut, meta); err != nil {
		return err
	}
	if err := writeStdout(ctx, result.Jobs, r.OutputOptions, meta); err != nil {
		return err
	}

	ctx.UI.Summary(result.Stats.Total, result.Stats.Current, result.Stats.Ranked)
	return nil
}
