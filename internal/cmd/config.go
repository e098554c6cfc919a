package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jimezsa/jobfinder/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default profile and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective profile after defaults and validation."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct {
	Config string `help:"Profile file (JSON, JSON5 or YAML)." type:"path"`
	Format string `help:"Output format: json or yaml." enum:"json,yaml" default:"json"`
}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	for _, path := range paths {
		ctx.UI.Infof("Created %s", path)
	}
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	profile, source, err := loadProfile(c.Config)
	if err != nil {
		return err
	}
	ctx.Logger.Debug().Str("profile", source).Msg("loaded profile")

	if c.Format == "yaml" && !ctx.JSONOutput {
		enc := yaml.NewEncoder(ctx.Out)
		enc.SetIndent(2)
		if err := enc.Encode(profile); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeJSONValue(ctx.Out, profile)
}
