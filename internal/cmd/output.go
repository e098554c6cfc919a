package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/export"
	"github.com/jimezsa/jobfinder/internal/models"
)

// OutputOptions are the stdout rendering flags shared by run, rank and parse.
type OutputOptions struct {
	Format string `help:"Stdout format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
}

// loadProfile reads path, or the profile in the config directory when path is
// empty. A missing default profile yields the built-in defaults.
func loadProfile(path string) (config.Profile, string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		defaultPath, err := config.ProfilePath()
		if err != nil {
			return config.Profile{}, "", err
		}
		path = defaultPath
	}
	profile, err := config.LoadProfile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.DefaultProfile(), "defaults", nil
		}
		return profile, path, err
	}
	return profile, path, nil
}

func resolveFormat(ctx *Context, opts OutputOptions) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatJSON, nil
}

func writeStdout(ctx *Context, jobs []models.Job, opts OutputOptions, meta export.ReportMeta) error {
	format, err := resolveFormat(ctx, opts)
	if err != nil {
		return err
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(ctx.Out)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteJobs(ctx.Out, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
		Report:       meta,
	})
}

// writeFiles writes the report and the JSON list when their paths are set.
func writeFiles(ctx *Context, jobs []models.Job, reportPath, jsonPath string, meta export.ReportMeta) error {
	if strings.TrimSpace(reportPath) != "" {
		format := export.FormatForPath(reportPath)
		err := export.WriteFile(ctx.context(), reportPath, func(w io.Writer) error {
			return export.WriteJobs(w, jobs, format, export.WriteOptions{Report: meta})
		})
		if err != nil {
			return fmt.Errorf("write --out: %w", err)
		}
	}
	if strings.TrimSpace(jsonPath) != "" {
		err := export.WriteFile(ctx.context(), jsonPath, func(w io.Writer) error {
			return export.WriteJobs(w, jobs, export.FormatJSON, export.WriteOptions{})
		})
		if err != nil {
			return fmt.Errorf("write --json-out: %w", err)
		}
	}
	return nil
}

func writeJSONValue(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(value)
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startIndicator(ctx *Context, label string) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2K%s... %ds %s", label, seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
