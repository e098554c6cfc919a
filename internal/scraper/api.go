package scraper

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/jobfinder/internal/extract"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

// API maps a JSON job board response into records. No HTML is involved apart
// from stripping markup out of text fields.
type API struct {
	mapItems func(body map[string]any, source string) []models.Job
	hasNext  func(body map[string]any) bool
	pageKey  string
}

func (a *API) Kind() Kind { return KindAPI }

func (a *API) Parse(raw string, source string, _ string) []models.Job {
	body, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	return a.mapItems(body, source)
}

// PageURL sets the page query parameter on baseURL. Page 1 is baseURL itself.
func (a *API) PageURL(baseURL string, page int) string {
	if a.pageKey == "" || page <= 1 {
		return baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set(a.pageKey, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func (a *API) HasNext(raw string) bool {
	if a.hasNext == nil {
		return false
	}
	body, ok := decodeObject(raw)
	if !ok {
		return false
	}
	return a.hasNext(body)
}

func decodeObject(raw string) (map[string]any, bool) {
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, false
	}
	return body, true
}

func items(body map[string]any, key string) []map[string]any {
	list, _ := body[key].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Arbeitnow maps https://www.arbeitnow.com/api/job-board-api.
var Arbeitnow = &API{
	pageKey: "page",
	hasNext: func(body map[string]any) bool {
		links, _ := body["links"].(map[string]any)
		return textValue(links["next"]) != ""
	},
	mapItems: func(body map[string]any, source string) []models.Job {
		var jobs []models.Job
		for _, item := range items(body, "data") {
			remote, _ := item["remote"].(bool)
			location := textutil.StripHTML(textValue(item["location"]))
			if location == "" && remote {
				location = "Remote"
			}
			jobs = append(jobs, models.Job{
				Source:      source,
				Title:       textutil.StripHTML(textValue(item["title"])),
				Company:     textutil.StripHTML(textValue(item["company_name"])),
				Location:    location,
				Remote:      remote,
				Tags:        stringList(item["tags"]),
				Description: textutil.StripHTML(textValue(item["description"])),
				URL:         textValue(item["url"]),
				PublishedAt: timestampValue(item["created_at"]),
			})
		}
		return jobs
	},
}

// Remotive maps https://remotive.com/api/remote-jobs. Every listing is remote.
var Remotive = &API{
	mapItems: func(body map[string]any, source string) []models.Job {
		var jobs []models.Job
		for _, item := range items(body, "jobs") {
			jobs = append(jobs, models.Job{
				Source:      source,
				Title:       textutil.StripHTML(textValue(item["title"])),
				Company:     textutil.StripHTML(textValue(item["company_name"])),
				Location:    extract.NormalizeLocation(item["candidate_required_location"]),
				Remote:      true,
				Tags:        stringList(item["tags"]),
				Description: textutil.StripHTML(textValue(item["description"])),
				URL:         textValue(item["url"]),
				PublishedAt: timestampValue(item["publication_date"]),
			})
		}
		return jobs
	},
}

var studySmarterRemote = regexp.MustCompile(`(?i)yes|true|remote`)

// StudySmarter maps the talents.studysmarter.de job search API. Listings
// without a link or title are dropped.
var StudySmarter = &API{
	mapItems: func(body map[string]any, source string) []models.Job {
		var jobs []models.Job
		for _, item := range items(body, "data") {
			title := textutil.StripHTML(textValue(item["title"]))
			link := textValue(item["link"])
			if title == "" || link == "" {
				continue
			}
			company := textValue(item["company_name"])
			if company == "" {
				company = source
			}
			tags := stringList(item["job_categories"])
			tags = append(tags, stringList(item["job_types"])...)
			tags = append(tags, stringList(item["job_industries"])...)
			posted := textValue(item["posted"])
			jobs = append(jobs, models.Job{
				Source:      source,
				Title:       title,
				Company:     textutil.StripHTML(company),
				Location:    textutil.StripHTML(strings.Join(stringList(item["locations"]), ", ")),
				Remote:      studySmarterRemote.MatchString(fmt.Sprint(item["is_remote_positions"])),
				Tags:        tags,
				URL:         link,
				PublishedAt: strings.Replace(posted, " ", "T", 1),
			})
		}
		return jobs
	},
}

// timestampValue keeps date strings as-is and renders unix seconds as RFC 3339.
func timestampValue(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v <= 0 {
			return ""
		}
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
	}
	return ""
}
