package scraper

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfinder/internal/dedupe"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const minPortalLabel = 6

// Portal is a two-pass parser for a single job portal host. Pass one reads
// anchors pointing at the host; pass two scans the raw markup for portal URLs,
// which catches script-rendered listings without usable anchors.
type Portal struct {
	Source       string
	Host         string
	Company      string
	Location     string
	DefaultTitle string
	JobPath      *regexp.Regexp
	Navigation   *regexp.Regexp
	rawURL       *regexp.Regexp
}

// KarriereportalBerlin is the public-sector portal of the Berlin state administration.
var KarriereportalBerlin = NewPortal(Portal{
	Source:       SourceKarriereportalBerlin,
	Host:         "karriereportal-stellen.berlin.de",
	Company:      "Land Berlin",
	Location:     "Berlin",
	DefaultTitle: "Stellenangebot (Land Berlin)",
	JobPath:      regexp.MustCompile(`(?i)stellen|job|vakanz|ausschreibung|-de-j\d+|/de/jobs?/|/de/stellen`),
	Navigation:   regexp.MustCompile(`(?i)impressum|datenschutz|kontakt|newsletter|barrierefrei|hilfe|login|registr`),
})

// NewPortal compiles the raw URL pattern for p.Host.
func NewPortal(p Portal) *Portal {
	p.rawURL = regexp.MustCompile(`(?i)https?://[^\s"'<>]*` + regexp.QuoteMeta(p.Host) + `[^\s"'<>]+`)
	return &p
}

func (p *Portal) Kind() Kind { return KindPortal }

func (p *Portal) Parse(raw string, source string, baseURL string) []models.Job {
	if source == "" {
		source = p.Source
	}
	seen := map[string]struct{}{}
	jobs := p.parseAnchors(raw, source, baseURL, seen)
	return append(jobs, p.parseRawURLs(raw, source, seen)...)
}

func (p *Portal) parseAnchors(raw string, source string, baseURL string, seen map[string]struct{}) []models.Job {
	doc, err := newDocument(raw)
	if err != nil {
		return nil
	}

	var jobs []models.Job
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		inner, _ := s.Html()
		text := textutil.CleanTitle(inner)
		if text == "" {
			text = textutil.CleanTitle(s.AttrOr("title", ""))
		}

		link := absoluteURL(baseURL, s.AttrOr("href", ""))
		lowered := strings.ToLower(link)
		if !strings.Contains(lowered, p.Host) || !p.JobPath.MatchString(lowered) {
			return
		}
		if utf8.RuneCountInString(text) < minPortalLabel {
			text = TitleFromURL(link)
		}
		if utf8.RuneCountInString(text) < minPortalLabel {
			return
		}
		if p.Navigation != nil && p.Navigation.MatchString(text) {
			return
		}

		key := dedupe.CanonicalURL(link)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		jobs = append(jobs, p.job(source, text, link))
	})
	return jobs
}

func (p *Portal) parseRawURLs(raw string, source string, seen map[string]struct{}) []models.Job {
	var jobs []models.Job
	for _, match := range p.rawURL.FindAllString(raw, -1) {
		link := html.UnescapeString(match)
		if !p.JobPath.MatchString(link) {
			continue
		}
		if p.Navigation != nil && p.Navigation.MatchString(link) {
			continue
		}
		key := dedupe.CanonicalURL(link)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		title := TitleFromURL(link)
		if title == "" {
			title = p.DefaultTitle
		}
		jobs = append(jobs, p.job(source, textutil.CleanTitle(title), link))
	}
	return jobs
}

func (p *Portal) job(source, title, link string) models.Job {
	return models.Job{
		Source:   source,
		Title:    title,
		Company:  p.Company,
		Location: p.Location,
		Tags:     []string{},
		URL:      link,
	}
}

var (
	htmlSuffix    = regexp.MustCompile(`(?i)\.html?$`)
	portalIDTail  = regexp.MustCompile(`(?i)-de-j\d+$`)
	slugSeparator = regexp.MustCompile(`[-_]+`)
)

// TitleFromURL synthesizes a title from the last path segment, e.g.
// ".../referentin-fuer-digitalisierung-de-j1234.html" -> "Referentin Fuer Digitalisierung".
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	slug := u.Path
	if idx := strings.LastIndex(slug, "/"); idx >= 0 {
		slug = slug[idx+1:]
	}
	slug = htmlSuffix.ReplaceAllString(slug, "")
	slug = portalIDTail.ReplaceAllString(slug, "")
	slug = textutil.CollapseSpace(slugSeparator.ReplaceAllString(slug, " "))
	if slug == "" {
		return ""
	}
	return cases.Title(language.German).String(slug)
}
