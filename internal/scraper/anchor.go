package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfinder/internal/extract"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const minAnchorLabel = 8

// Anchor treats job-looking links as postings. It is the fallback for listing
// pages without structured data.
type Anchor struct{}

func (Anchor) Kind() Kind { return KindAnchor }

func (Anchor) Parse(raw string, source string, baseURL string) []models.Job {
	doc, err := newDocument(raw)
	if err != nil {
		return nil
	}

	var jobs []models.Job
	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		inner, _ := s.Html()
		text := textutil.CleanTitle(inner)
		if utf8.RuneCountInString(text) < minAnchorLabel {
			return
		}
		if !jobTermPattern.MatchString(text + " " + href) {
			return
		}

		link := absoluteURL(baseURL, href)
		key := textutil.Norm(link) + "|" + textutil.Norm(text)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		jobs = append(jobs, models.Job{
			Source:  source,
			Title:   text,
			Company: extract.InferCompanyFromTitle(text, source),
			Remote:  remotePattern.MatchString(text),
			Tags:    []string{},
			URL:     link,
		})
	})
	return jobs
}
