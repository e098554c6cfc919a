package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/jimezsa/jobfinder/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
	// Report supplies the Markdown header; zero value writes a bare report.
	Report ReportMeta
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

const linkColor = "#87CEEB"

// ParseFormat accepts the CLI spellings of a format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q", value)
}

// FormatForPath picks the file format from the extension, defaulting to Markdown.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	}
	return FormatMarkdown
}

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',')
	case FormatTSV:
		return writeCSV(w, jobs, '\t')
	case FormatMarkdown:
		return WriteReport(w, jobs, opts.Report)
	default:
		return writeTable(w, jobs, opts)
	}
}

// writeJSON writes the ranked list with empty lists instead of nulls.
func writeJSON(w io.Writer, jobs []models.Job) error {
	out := make([]models.Job, len(jobs))
	for i, job := range jobs {
		if job.Tags == nil {
			job.Tags = []string{}
		}
		if job.Reasons == nil {
			job.Reasons = []string{}
		}
		out[i] = job
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func writeCSV(w io.Writer, jobs []models.Job, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for i, job := range jobs {
		if err := writer.Write(csvRow(i+1, job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for i, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(i+1, job, output, opts), "\t"))
	}
	return tw.Flush()
}

func csvHeader() []string {
	return []string{
		"rank",
		"score",
		"source",
		"title",
		"company",
		"location",
		"remote",
		"published_at",
		"age_days",
		"reasons",
		"tags",
		"url",
	}
}

func csvRow(rank int, job models.Job) []string {
	return []string{
		strconv.Itoa(rank),
		strconv.Itoa(job.Score),
		job.Source,
		job.Title,
		job.Company,
		job.Location,
		strconv.FormatBool(job.Remote),
		job.PublishedAt,
		ageLabel(job.AgeDays),
		strings.Join(job.Reasons, " | "),
		strings.Join(job.Tags, ", "),
		job.URL,
	}
}

func tableHeader() []string {
	return []string{
		"#",
		"score",
		"source",
		"title",
		"company",
		"location",
		"age",
		"url",
	}
}

func tableRow(rank int, job models.Job, output *termenv.Output, opts WriteOptions) []string {
	link := safe(job.URL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	return []string{
		strconv.Itoa(rank),
		strconv.Itoa(job.Score),
		safe(job.Source),
		safe(job.Title),
		safe(job.Company),
		orDash(job.Location),
		ageLabel(job.AgeDays),
		displayURL,
	}
}

func ageLabel(days int) string {
	if days == models.UnknownAge {
		return "?"
	}
	return strconv.Itoa(days)
}

func orDash(value string) string {
	if v := safe(value); v != "" {
		return v
	}
	return "-"
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
