package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jimezsa/jobfinder/internal/models"
)

// ReportMeta is printed above the ranked list of a Markdown report.
type ReportMeta struct {
	Profile     string
	GeneratedAt time.Time
	Warnings    []string
}

const emptyReportHint = "No matches. Consider lowering `minimumScore` or adjusting the keywords."

// WriteReport renders jobs as the Markdown result report.
func WriteReport(w io.Writer, jobs []models.Job, meta ReportMeta) error {
	lines := []string{"# Job finder results", ""}
	if meta.Profile != "" {
		lines = append(lines, fmt.Sprintf("Profile: `%s`", meta.Profile))
	}
	if !meta.GeneratedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Generated: %s", meta.GeneratedAt.Format(time.RFC3339)))
	}
	if len(lines) > 2 {
		lines = append(lines, "")
	}

	if len(jobs) == 0 {
		lines = append(lines, emptyReportHint, "")
	}
	for i, job := range jobs {
		reasons := "none"
		if len(job.Reasons) > 0 {
			reasons = strings.Join(job.Reasons, " | ")
		}
		location := safe(job.Location)
		if location == "" {
			location = "unknown"
		}
		lines = append(lines,
			fmt.Sprintf("## %d. %s (%s)", i+1, safe(job.Title), safe(job.Company)),
			fmt.Sprintf("- Score: **%d**", job.Score),
			fmt.Sprintf("- Source: %s", safe(job.Source)),
			fmt.Sprintf("- Location: %s", location),
			fmt.Sprintf("- Published: %s", publishedLabel(job.AgeDays)),
			fmt.Sprintf("- Reasons: %s", reasons),
			fmt.Sprintf("- Link: %s", safe(job.URL)),
			"",
		)
	}

	if len(meta.Warnings) > 0 {
		lines = append(lines, "## Warnings", "")
		for _, warning := range meta.Warnings {
			lines = append(lines, "- "+warning)
		}
		lines = append(lines, "")
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func publishedLabel(days int) string {
	switch days {
	case models.UnknownAge:
		return "unknown"
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
