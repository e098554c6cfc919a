package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jimezsa/jobfinder/internal/textutil"
)

var metaDescriptionSelectors = []string{
	"meta[name='description']",
	"meta[property='og:description']",
	"meta[name='og:description']",
}

// ExtractMetaDescription returns the page's meta or Open Graph description.
func ExtractMetaDescription(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	for _, selector := range metaDescriptionSelectors {
		content, ok := doc.Find(selector).First().Attr("content")
		if !ok {
			continue
		}
		if text := textutil.StripHTML(content); text != "" {
			return text
		}
	}
	return ""
}
