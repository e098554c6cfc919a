package cmd

import (
	"fmt"
	"runtime"
)

type VersionCmd struct{}

type versionInfo struct {
	Version string `json:"version"`
	Go      string `json:"go"`
}

func (v *VersionCmd) Run(ctx *Context) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx.Out, versionInfo{Version: ctx.Version, Go: runtime.Version()})
	}
	_, err := fmt.Fprintf(ctx.Out, "jobfinder %s\n", ctx.Version)
	return err
}
