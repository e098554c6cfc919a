package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfinder/internal/extract"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

// Structured reads schema.org JobPosting objects from ld+json script blocks.
type Structured struct{}

func (Structured) Kind() Kind { return KindStructured }

func (Structured) Parse(raw string, source string, baseURL string) []models.Job {
	doc, err := newDocument(raw)
	if err != nil {
		return nil
	}
	return parseJSONLDJobs(doc, source, baseURL)
}

func parseJSONLDJobs(doc *goquery.Document, source string, baseURL string) []models.Job {
	var jobs []models.Job
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}
		for _, node := range jobPostingNodes(data) {
			if job, ok := jobFromJobPosting(node, source, baseURL); ok {
				jobs = append(jobs, job)
			}
		}
	})
	return jobs
}

// jobPostingNodes walks arrays, @graph, mainEntity and ItemList containers.
func jobPostingNodes(data any) []map[string]any {
	var nodes []map[string]any
	switch value := data.(type) {
	case []any:
		for _, item := range value {
			nodes = append(nodes, jobPostingNodes(item)...)
		}
	case map[string]any:
		if typeIs(value, "JobPosting") {
			return append(nodes, value)
		}
		if typeIs(value, "ItemList") {
			nodes = append(nodes, jobPostingNodes(value["itemListElement"])...)
		}
		if typeIs(value, "ListItem") {
			nodes = append(nodes, jobPostingNodes(value["item"])...)
		}
		if graph, ok := value["@graph"]; ok {
			nodes = append(nodes, jobPostingNodes(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			nodes = append(nodes, jobPostingNodes(main)...)
		}
	}
	return nodes
}

func jobFromJobPosting(value map[string]any, source string, baseURL string) (models.Job, bool) {
	title := textutil.StripHTML(textValue(value["title"], value["name"]))
	link := absoluteURL(baseURL, textValue(value["url"], value["directApply"]))
	if link == "" {
		link = strings.TrimSpace(baseURL)
	}
	if title == "" || link == "" {
		return models.Job{}, false
	}

	company := source
	if org, ok := value["hiringOrganization"].(map[string]any); ok {
		if name, present := org["name"]; present {
			company = textutil.StripHTML(stringValue(name))
		}
	} else if name := textValue(value["hiringOrganization"]); name != "" {
		company = textutil.StripHTML(name)
	}
	if strings.EqualFold(source, SourceStepStone) && extract.IsPlatformName(company) {
		company = extract.InferCompanyFromTitle(title, company)
	}

	location := value["jobLocation"]
	if location == nil {
		location = value["applicantLocationRequirements"]
	}

	blob, _ := json.Marshal(value)
	return models.Job{
		Source:      source,
		Title:       title,
		Company:     company,
		Location:    textutil.StripHTML(extract.NormalizeLocation(location)),
		Remote:      remotePattern.Match(blob),
		Tags:        []string{},
		Description: textutil.StripHTML(textValue(value["description"])),
		URL:         link,
		PublishedAt: stringValue(value["datePosted"]),
	}, true
}
