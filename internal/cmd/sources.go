package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobfinder/internal/scraper"
)

type SourcesCmd struct {
	Config string `help:"Profile used to build search URLs." type:"path"`
}

type sourceInfo struct {
	Name     string   `json:"name"`
	Kinds    []string `json:"kinds"`
	URLs     []string `json:"urls"`
	MaxPages int      `json:"maxPages,omitempty"`
}

func (s *SourcesCmd) Run(ctx *Context) error {
	profile, _, err := loadProfile(s.Config)
	if err != nil {
		return err
	}

	var infos []sourceInfo
	for _, src := range scraper.Registry(profile) {
		info := sourceInfo{Name: src.Name, URLs: src.URLs, MaxPages: src.MaxPages}
		for _, kind := range src.Kinds() {
			info.Kinds = append(info.Kinds, string(kind))
		}
		infos = append(infos, info)
	}

	if ctx.JSONOutput {
		return writeJSONValue(ctx.Out, infos)
	}

	if ctx.PlainText {
		for _, info := range infos {
			fmt.Fprintf(ctx.Out, "%s\t%s\t%s\n", info.Name, strings.Join(info.Kinds, ","), strings.Join(info.URLs, " "))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "source\tparsers\turls")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, strings.Join(info.Kinds, ","), strings.Join(info.URLs, " "))
	}
	return tw.Flush()
}
