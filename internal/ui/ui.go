package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ANSI palette indexes.
const (
	colorRed    = "1"
	colorYellow = "3"
	colorBlue   = "4"
)

// UI writes human-facing messages. Data goes to Out, diagnostics to Err.
type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    termenv.NewOutput(err),
		ColorEnabled: colorWanted(output, mode, disableColor),
	}
}

func colorWanted(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

func (u *UI) line(w io.Writer, output *termenv.Output, color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled && color != "" {
		msg = output.String(msg).Foreground(output.Color(color)).String()
	}
	fmt.Fprintln(w, msg)
}

func (u *UI) Errorf(format string, args ...any) {
	u.line(u.Err, u.ErrOutput, colorRed, format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.line(u.Err, u.ErrOutput, colorYellow, format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.line(u.Out, u.Output, colorBlue, format, args...)
}

// Warnings prints each run warning on its own line, prefixed so it can be
// grepped out of stderr.
func (u *UI) Warnings(warnings []string) {
	for _, warning := range warnings {
		u.Warnf("[warning] %s", warning)
	}
}

// Summary prints the run counters in key=value form.
func (u *UI) Summary(total, current, ranked int) {
	msg := fmt.Sprintf("total=%d current=%d ranked=%d", total, current, ranked)
	if u.ColorEnabled {
		msg = u.ErrOutput.String(msg).Bold().String()
	}
	fmt.Fprintln(u.Err, msg)
}

// Dropped prints per-stage filter counts, sorted by stage name.
func (u *UI) Dropped(counts map[string]int) {
	stages := make([]string, 0, len(counts))
	for stage, n := range counts {
		if n > 0 {
			stages = append(stages, stage)
		}
	}
	sort.Strings(stages)
	for _, stage := range stages {
		u.line(u.Err, u.ErrOutput, "", "dropped %s=%d", stage, counts[stage])
	}
}

func NormalizeColorMode(value string) ColorMode {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAlways:
		return ColorAlways
	case ColorNever:
		return ColorNever
	default:
		return ColorAuto
	}
}
