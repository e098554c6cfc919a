package models

import "encoding/json"

const (
	// UnknownAge marks a posting whose publication date is missing or unparseable.
	UnknownAge = 9999
	// VetoScore is assigned when must-keywords are configured and none matched.
	VetoScore = -999
)

// Job is the normalized posting produced by source parsers and carried through
// enrichment, merging and ranking.
type Job struct {
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Remote      bool     `json:"remote"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"publishedAt"`
	AgeDays     int      `json:"ageDays"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
}

// Field returns the string value of one of the back-fillable content fields.
func (j *Job) Field(name string) string {
	switch name {
	case "company":
		return j.Company
	case "location":
		return j.Location
	case "publishedAt":
		return j.PublishedAt
	case "description":
		return j.Description
	case "url":
		return j.URL
	case "title":
		return j.Title
	}
	return ""
}

// SetField assigns one of the back-fillable content fields.
func (j *Job) SetField(name, value string) {
	switch name {
	case "company":
		j.Company = value
	case "location":
		j.Location = value
	case "publishedAt":
		j.PublishedAt = value
	case "description":
		j.Description = value
	case "url":
		j.URL = value
	case "title":
		j.Title = value
	}
}

// MarshalJSON writes an unknown publication date as null.
func (j Job) MarshalJSON() ([]byte, error) {
	type plain Job
	var published *string
	if j.PublishedAt != "" {
		published = &j.PublishedAt
	}
	return json.Marshal(struct {
		plain
		PublishedAt *string `json:"publishedAt"`
	}{plain: plain(j), PublishedAt: published})
}
