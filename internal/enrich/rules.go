package enrich

import (
	"strings"

	"github.com/jimezsa/jobfinder/internal/extract"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/scraper"
	"github.com/jimezsa/jobfinder/internal/textutil"
)

const (
	gesinesDefaultCap   = 40
	stepstoneDefaultCap = 80
)

// placeholderCompany reports whether company carries no real employer name.
func placeholderCompany(company, source string) bool {
	return extract.IsPlatformName(company) || textutil.Norm(company) == textutil.Norm(source)
}

func GesinesRule() Rule {
	source := scraper.SourceGesinesJobtipps
	return Rule{
		Source:     source,
		DefaultCap: gesinesDefaultCap,
		Needs: func(job models.Job) bool {
			if !strings.HasPrefix(strings.TrimSpace(job.URL), "http") {
				return false
			}
			return placeholderCompany(job.Company, source) ||
				isBlank(job.Location) ||
				isBlank(job.PublishedAt) ||
				isBlank(job.Description)
		},
		Apply: func(job *models.Job, page *Page) {
			if page != nil {
				applyGesinesPage(job, page, source)
			}
			if textutil.Norm(job.Company) == textutil.Norm(source) {
				job.Company = extract.CompanyFromHost(job.URL, job.Company)
			}
		},
	}
}

func applyGesinesPage(job *models.Job, page *Page, source string) {
	var best *models.Job
	for i := range page.Jobs {
		if textutil.Norm(page.Jobs[i].Title) == textutil.Norm(job.Title) {
			best = &page.Jobs[i]
			break
		}
	}
	if best == nil && len(page.Jobs) > 0 {
		best = &page.Jobs[0]
	}

	bestLocation := ""
	if best != nil {
		if !placeholderCompany(best.Company, source) && placeholderCompany(job.Company, source) {
			job.Company = best.Company
		}
		bestLocation = best.Location
		fillBlank(job, "location", best.Location)
		fillBlank(job, "publishedAt", best.PublishedAt)
		fillBlank(job, "description", best.Description)
	}

	fillBlank(job, "description", page.MetaDescription)
	fillBlank(job, "location", extract.InferLocationFromText(bestLocation, page.MetaDescription, page.Text))
}

func StepStoneRule() Rule {
	return Rule{
		Source:     scraper.SourceStepStone,
		DefaultCap: stepstoneDefaultCap,
		Needs: func(job models.Job) bool {
			needsData := extract.IsPlatformName(job.Company) || isBlank(job.Location) || isBlank(job.PublishedAt)
			return needsData && scraper.IsStepStoneDetailURL(job.URL)
		},
		Apply: func(job *models.Job, page *Page) {
			if page == nil || len(page.Jobs) == 0 {
				return
			}
			detail := page.Jobs[0]
			if extract.IsPlatformName(job.Company) && !isBlank(detail.Company) {
				job.Company = detail.Company
			}
			fillBlank(job, "location", detail.Location)
			fillBlank(job, "publishedAt", detail.PublishedAt)
			fillBlank(job, "description", detail.Description)
		},
	}
}
