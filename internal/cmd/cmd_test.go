package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobfinder/internal/export"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/network"
	"github.com/jimezsa/jobfinder/internal/scraper"
	"github.com/jimezsa/jobfinder/internal/ui"
)

func newTestContext(out, errOut *bytes.Buffer) *Context {
	return &Context{
		Out:        out,
		Err:        errOut,
		UI:         ui.New(out, errOut, ui.ColorNever, true),
		Logger:     zerolog.Nop(),
		JSONOutput: true,
		Now: func() time.Time {
			return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		},
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveFormatRespectsGlobalFlags(t *testing.T) {
	ctx := &Context{Out: io.Discard, JSONOutput: true}
	got, err := resolveFormat(ctx, OutputOptions{Format: "csv"})
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatJSON {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatJSON)
	}

	ctx = &Context{Out: io.Discard, PlainText: true}
	got, err = resolveFormat(ctx, OutputOptions{})
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatTSV {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatTSV)
	}

	ctx = &Context{Out: io.Discard}
	got, err = resolveFormat(ctx, OutputOptions{Format: "md"})
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatMarkdown {
		t.Fatalf("resolveFormat() = %q, want %q", got, export.FormatMarkdown)
	}

	got, err = resolveFormat(ctx, OutputOptions{})
	if err != nil {
		t.Fatalf("resolveFormat() error = %v", err)
	}
	if got != export.FormatJSON {
		t.Fatalf("non-tty default = %q, want %q", got, export.FormatJSON)
	}
}

func TestLoadProfileFallsBackToDefaults(t *testing.T) {
	t.Setenv("JOBFINDER_CONFIG_DIR", t.TempDir())

	profile, path, err := loadProfile("")
	if err != nil {
		t.Fatalf("loadProfile() error = %v", err)
	}
	if path != "defaults" || profile.MaxResults == 0 {
		t.Fatalf("expected built-in defaults, got %q %+v", path, profile)
	}

	if _, _, err := loadProfile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for explicit missing profile")
	}
}

func TestRankCmdMergesAndRanks(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeTestFile(t, dir, "profile.yaml", "keywordsMust: [referent]\nminimumScore: 1\n")
	jobsPath := writeTestFile(t, dir, "jobs.json", `[
  {"source": "X", "title": "Referent Politik", "company": "Acme", "location": "Berlin", "url": "https://ex.org/a?utm_source=feed", "publishedAt": "2026-10-17"},
  {"source": "Y", "title": "Referent Politik", "company": "Acme", "url": "https://ex.org/a", "description": "Gremienarbeit"},
  {"source": "X", "title": "Sachbearbeitung Buchhaltung", "company": "Beta", "url": "https://ex.org/b", "publishedAt": "2026-10-17"}
]`)
	jsonOut := filepath.Join(dir, "out", "ranked.json")

	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	cmd := &RankCmd{Files: []string{jobsPath}, Config: profilePath, JSONOut: jsonOut, Stats: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var ranked []models.Job
	if err := json.Unmarshal(out.Bytes(), &ranked); err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, out.String())
	}
	if len(ranked) != 1 {
		t.Fatalf("len(ranked) = %d, want 1", len(ranked))
	}
	if ranked[0].Title != "Referent Politik" || ranked[0].Description != "Gremienarbeit" {
		t.Fatalf("unexpected merged job: %+v", ranked[0])
	}
	if ranked[0].Score <= 0 {
		t.Fatalf("expected positive score, got %d", ranked[0].Score)
	}

	if !strings.Contains(errOut.String(), "total_input=3 duplicates=1 total_out=2") {
		t.Fatalf("missing merge stats: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "ranked=1") {
		t.Fatalf("missing summary: %q", errOut.String())
	}

	written, err := export.ReadJobs(jsonOut)
	if err != nil {
		t.Fatalf("ReadJobs() error = %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("len(written) = %d, want 1", len(written))
	}
}

func TestParseCmdAnchor(t *testing.T) {
	dir := t.TempDir()
	page := writeTestFile(t, dir, "page.html", `<a href="/stellen/1">Referentin für Digitalpolitik</a><a href="/about">Über uns</a>`)

	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	cmd := &ParseCmd{File: page, Kind: "anchor", Source: "Local", Base: "https://example.org/"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var jobs []models.Job
	if err := json.Unmarshal(out.Bytes(), &jobs); err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if len(jobs) != 1 || jobs[0].URL != "https://example.org/stellen/1" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
}

func TestParseCmdAPIParserSelection(t *testing.T) {
	parser, err := (&ParseCmd{Kind: "api", Source: "arbeitnow"}).parser()
	if err != nil {
		t.Fatalf("parser() error = %v", err)
	}
	if parser != scraper.Parser(scraper.Arbeitnow) {
		t.Fatalf("expected the Arbeitnow mapper")
	}

	_, err = (&ParseCmd{Kind: "api", Source: "Local"}).parser()
	if !errors.Is(err, scraper.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestSourcesCmdJSON(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeTestFile(t, dir, "profile.json", `{keywordsMust: ["Public Affairs"]}`)

	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	if err := (&SourcesCmd{Config: profilePath}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var infos []sourceInfo
	if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if len(infos) != 17 {
		t.Fatalf("len(infos) = %d, want 17", len(infos))
	}
	last := infos[len(infos)-1]
	if last.Name != scraper.SourceStepStone || last.URLs[0] != "https://www.stepstone.de/jobs/public-affairs/in-berlin" {
		t.Fatalf("unexpected last source: %+v", last)
	}
}

func TestConfigPathPrintsDir(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	ctx.ConfigDir = "/tmp/jobfinder"
	if err := (&PathConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "/tmp/jobfinder" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestClassifyFetch(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus string
	}{
		{nil, "ok"},
		{&network.FetchError{URL: "https://x.de", Status: 407, Err: network.ErrRequestFailed}, "407"},
		{&network.FetchError{URL: "https://x.de", Err: context.DeadlineExceeded}, "timeout"},
		{errors.New("proxy refused"), "error"},
		{fmt.Errorf("decode https://x.de: %w", &json.SyntaxError{Offset: 1}), "bad-body"},
	}
	for _, tc := range cases {
		if got, _ := classifyFetch(tc.err); got != tc.wantStatus {
			t.Fatalf("classifyFetch(%v) = %q, want %q", tc.err, got, tc.wantStatus)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	ctx.Version = "1.2.3"
	if err := (&VersionCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("decode stdout: %v", err)
	}
	if info.Version != "1.2.3" || info.Go == "" {
		t.Fatalf("unexpected version info: %+v", info)
	}
}

func TestConfigShowYAML(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeTestFile(t, dir, "profile.yaml", "keywordsMust: [Referent]\nmaxResults: 5\n")

	var out, errOut bytes.Buffer
	ctx := newTestContext(&out, &errOut)
	ctx.JSONOutput = false
	if err := (&ShowConfigCmd{Config: profilePath, Format: "yaml"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "maxResults: 5") {
		t.Fatalf("expected yaml profile, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "- Referent") {
		t.Fatalf("expected keywords list, got:\n%s", out.String())
	}
}
