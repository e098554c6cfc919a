package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Run     RunCmd     `cmd:"" default:"withargs" help:"Fetch all sources and rank the postings against a profile."`
	Rank    RankCmd    `cmd:"" help:"Rank job records from JSON files without fetching."`
	Parse   ParseCmd   `cmd:"" help:"Run one parser over a saved page."`
	Sources SourcesCmd `cmd:"" help:"List the registered sources."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
