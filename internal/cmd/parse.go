package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/export"
	"github.com/jimezsa/jobfinder/internal/scraper"
)

type ParseCmd struct {
	File   string `arg:"" type:"existingfile" help:"Saved page or API response."`
	Kind   string `help:"Parser: structured, anchor, portal or api." enum:"structured,anchor,portal,api" default:"structured"`
	Source string `help:"Source name stamped on the records; selects the mapper for --kind api." default:"Local"`
	Base   string `help:"URL the page was fetched from, for resolving relative links."`
	OutputOptions
}

func (p *ParseCmd) Run(ctx *Context) error {
	raw, err := os.ReadFile(p.File)
	if err != nil {
		return err
	}

	parser, err := p.parser()
	if err != nil {
		return err
	}

	jobs := parser.Parse(string(raw), p.Source, p.Base)
	ctx.Logger.Debug().Str("kind", p.Kind).Str("source", p.Source).Int("records", len(jobs)).Msg("parsed file")
	return writeStdout(ctx, jobs, p.OutputOptions, export.ReportMeta{})
}

func (p *ParseCmd) parser() (scraper.Parser, error) {
	kind := scraper.Kind(p.Kind)
	if kind != scraper.KindAPI {
		return scraper.ParserFor(kind)
	}
	for _, src := range scraper.Registry(config.DefaultProfile()) {
		if !strings.EqualFold(src.Name, p.Source) {
			continue
		}
		for _, parser := range src.Parsers {
			if parser.Kind() == scraper.KindAPI {
				return parser, nil
			}
		}
	}
	return nil, fmt.Errorf("no api mapper for source %q: %w", p.Source, scraper.ErrNotImplemented)
}
