package scraper

import "testing"

func TestArbeitnowParse(t *testing.T) {
	body := `{
  "data": [
    {
      "title": "Referent <b>Politik</b>",
      "company_name": "Acme",
      "location": "",
      "remote": true,
      "tags": ["Policy", 7],
      "description": "<p>Text</p>",
      "url": "https://www.arbeitnow.com/jobs/acme/referent",
      "created_at": 1792281600
    }
  ],
  "links": {"next": "https://www.arbeitnow.com/api/job-board-api?page=2"}
}`

	jobs := Arbeitnow.Parse(body, SourceArbeitnow, "")
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Title != "Referent Politik" || job.Description != "Text" {
		t.Fatalf("expected markup stripped: %+v", job)
	}
	if job.Location != "Remote" || !job.Remote {
		t.Fatalf("expected remote placeholder location: %+v", job)
	}
	if job.PublishedAt != "2026-10-18T00:00:00Z" {
		t.Fatalf("unexpected publishedAt: %q", job.PublishedAt)
	}
	if len(job.Tags) != 2 || job.Tags[0] != "Policy" || job.Tags[1] != "7" {
		t.Fatalf("unexpected tags: %v", job.Tags)
	}
	if !Arbeitnow.HasNext(body) {
		t.Fatalf("expected next page")
	}
	if Arbeitnow.HasNext(`{"data": [], "links": {"next": null}}`) {
		t.Fatalf("expected last page")
	}
}

func TestAPIPageURL(t *testing.T) {
	base := "https://www.arbeitnow.com/api/job-board-api"
	if got := Arbeitnow.PageURL(base, 1); got != base {
		t.Fatalf("page 1 = %q", got)
	}
	if got := Arbeitnow.PageURL(base, 3); got != base+"?page=3" {
		t.Fatalf("page 3 = %q", got)
	}
	if got := Remotive.PageURL(base, 2); got != base {
		t.Fatalf("unpaginated source changed url: %q", got)
	}
	if Remotive.HasNext(`{"jobs": []}`) {
		t.Fatalf("unpaginated source reported a next page")
	}
}

func TestRemotiveParse(t *testing.T) {
	body := `{"jobs": [{"title": "Policy Lead", "company_name": "Remote Co", "candidate_required_location": "Germany", "tags": [], "url": "https://remotive.com/j/1", "publication_date": "2026-10-15T10:00:00"}]}`

	jobs := Remotive.Parse(body, SourceRemotive, "")
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if !jobs[0].Remote || jobs[0].Location != "Germany" || jobs[0].PublishedAt != "2026-10-15T10:00:00" {
		t.Fatalf("unexpected job: %+v", jobs[0])
	}
}

func TestStudySmarterParse(t *testing.T) {
	body := `{"data": [
  {"title": "Ohne Link"},
  {
    "title": "Werkstudent Public Affairs",
    "link": "https://talents.studysmarter.de/jobs/1",
    "company_name": "",
    "job_categories": ["Politik"],
    "job_types": ["Werkstudent"],
    "job_industries": [],
    "locations": ["Berlin", "Potsdam"],
    "is_remote_positions": "yes",
    "posted": "2026-10-12 09:30:00"
  }
]}`

	jobs := StudySmarter.Parse(body, SourceStudySmarter, "")
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Company != SourceStudySmarter {
		t.Fatalf("expected source as company, got %q", job.Company)
	}
	if job.Location != "Berlin, Potsdam" || !job.Remote {
		t.Fatalf("unexpected location or remote: %+v", job)
	}
	if job.PublishedAt != "2026-10-12T09:30:00" {
		t.Fatalf("unexpected publishedAt: %q", job.PublishedAt)
	}
	if len(job.Tags) != 2 || job.Tags[0] != "Politik" || job.Tags[1] != "Werkstudent" {
		t.Fatalf("unexpected tags: %v", job.Tags)
	}
}

func TestAPIParseInvalidBody(t *testing.T) {
	if jobs := Arbeitnow.Parse("<html>", SourceArbeitnow, ""); len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}
