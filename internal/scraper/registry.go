package scraper

import (
	"net/url"
	"strings"

	"github.com/jimezsa/jobfinder/internal/config"
)

const (
	SourceArbeitnow            = "Arbeitnow"
	SourceRemotive             = "Remotive"
	SourceStudySmarter         = "StudySmarter"
	SourceGesinesJobtipps      = "GesinesJobtipps"
	SourceInteramt             = "Interamt"
	SourceBundService          = "BundService"
	SourceBMWK                 = "BMWK"
	SourceBMG                  = "BMG"
	SourceBMI                  = "BMI"
	SourceBMBFSFJ              = "BMBFSFJ"
	SourceBMDS                 = "BMDS"
	SourceBMF                  = "BMF"
	SourceArbeitsagentur       = "Arbeitsagentur"
	SourceLinkedInJobs         = "LinkedInJobs"
	SourceGoodJobs             = "GoodJobs"
	SourceKarriereportalBerlin = "KarriereportalBerlin"
	SourceStepStone            = "StepStone"
)

const arbeitnowMaxPages = 3

// Source declares where a job board lives and which parsers read it. Every URL
// is fetched once and handed to each parser in order.
type Source struct {
	Name    string
	URLs    []string
	Parsers []Parser
	// MaxPages bounds pagination for parsers implementing Pager.
	MaxPages int
}

// Kinds lists the parser variants wired to the source.
func (s Source) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.Parsers))
	for _, p := range s.Parsers {
		kinds = append(kinds, p.Kind())
	}
	return kinds
}

// Registry returns all sources in declaration order. The order is the
// first-seen order of the ranked output and must stay stable.
func Registry(profile config.Profile) []Source {
	html := []Parser{Structured{}, Anchor{}}
	page := func(name string, urls ...string) Source {
		return Source{Name: name, URLs: urls, Parsers: html}
	}

	studySmarterKeyword := "Politik"
	if len(profile.KeywordsMust) > 0 && strings.TrimSpace(profile.KeywordsMust[0]) != "" {
		studySmarterKeyword = profile.KeywordsMust[0]
	}

	return []Source{
		{Name: SourceArbeitnow, URLs: []string{"https://www.arbeitnow.com/api/job-board-api"}, Parsers: []Parser{Arbeitnow}, MaxPages: arbeitnowMaxPages},
		{Name: SourceRemotive, URLs: []string{"https://remotive.com/api/remote-jobs"}, Parsers: []Parser{Remotive}},
		{Name: SourceStudySmarter, URLs: []string{studySmarterURL(studySmarterKeyword)}, Parsers: []Parser{StudySmarter}},
		page(SourceGesinesJobtipps, "https://gesinesjobtipps.de/region/berlin-und-umgebung/"),
		page(SourceInteramt, profile.InteramtSearchURL),
		page(SourceBundService, "https://bund.service.de/", "https://service.bund.de/"),
		page(SourceBMWK, "https://www.bundeswirtschaftsministerium.de/Navigation/DE/Ministerium/Stellenangebote/stellenangebote.html"),
		page(SourceBMG, "https://www.bundesgesundheitsministerium.de/ministerium/karriere/stellenangebote"),
		page(SourceBMI, "https://www.bmi.bund.de/DE/service/stellenangebote/stellenangebote-node.html"),
		page(SourceBMBFSFJ, "https://www.bmbfsfj.bund.de/bmbfsfj/ministerium/bmbfsfj-als-arbeitgeber/ausschreibungen"),
		page(SourceBMDS, "https://bmds.bund.de/ministerium/bmds-als-arbeitgeber"),
		page(SourceBMF, "https://www.bundesfinanzministerium.de/Web/DE/Ministerium/Arbeiten-Ausbildung/Stellenangebote/stellenangebote.html"),
		page(SourceArbeitsagentur, "https://www.arbeitsagentur.de/jobsuche/suche?angebotsart=1&wo=Berlin"),
		page(SourceLinkedInJobs, "https://de.linkedin.com/jobs/search/?keywords=Public%20Affairs&location=Berlin"),
		page(SourceGoodJobs, "https://goodjobs.eu/jobs"),
		{
			Name: SourceKarriereportalBerlin,
			URLs: []string{
				"https://www.karriereportal-stellen.berlin.de/stellenangebote.html?filter%5Bvolltext%5D=",
				"https://www.karriereportal-stellen.berlin.de/stellenangebote.html?filter%5Bvolltext%5D=referent",
			},
			Parsers: []Parser{KarriereportalBerlin},
		},
		page(SourceStepStone, StepStoneSearchURL(profile.KeywordsMust, profile.LocationsPreferred)),
	}
}

func studySmarterURL(keyword string) string {
	values := url.Values{}
	values.Set("keyword", keyword)
	values.Set("page_number", "1")
	values.Set("city", "Berlin")
	return "https://talents.studysmarter.de/wp-json/studysmarter/v1/jobs/?" + values.Encode()
}

// Select keeps the sources named in allowed (case-insensitive). An empty list
// selects everything.
func Select(sources []Source, allowed []string) []Source {
	wanted := NormalizeSites(allowed)
	if len(wanted) == 0 {
		return sources
	}
	set := make(map[string]struct{}, len(wanted))
	for _, name := range wanted {
		set[name] = struct{}{}
	}
	out := make([]Source, 0, len(sources))
	for _, src := range sources {
		if _, ok := set[strings.ToLower(src.Name)]; ok {
			out = append(out, src)
		}
	}
	return out
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		out = append(out, site)
	}
	return out
}
