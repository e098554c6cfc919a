package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.com/path/page"
	cases := []struct {
		href string
		want string
	}{
		{"/jobs/1", "https://example.com/jobs/1"},
		{"jobs/2", "https://example.com/path/jobs/2"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"  ", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestDecodeJSONLDStripsCommentWrapper(t *testing.T) {
	data, err := decodeJSONLD("<!-- {\"@type\": \"JobPosting\", \"title\": \"Referent\u2028\"} -->")
	if err != nil {
		t.Fatalf("decodeJSONLD: %v", err)
	}
	node, ok := data.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", data)
	}
	if node["title"] != "Referent" {
		t.Fatalf("unexpected title: %q", node["title"])
	}
}

func TestStringValue(t *testing.T) {
	cases := []struct {
		in   []any
		want string
	}{
		{[]any{"  ", "second"}, "second"},
		{[]any{float64(42)}, "42"},
		{[]any{float64(2.5)}, "2.5"},
		{[]any{map[string]any{"name": "Acme"}}, "Acme"},
		{[]any{nil, true}, ""},
	}
	for _, tc := range cases {
		if got := stringValue(tc.in...); got != tc.want {
			t.Fatalf("stringValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTypeIs(t *testing.T) {
	if !typeIs(map[string]any{"@type": "jobposting"}, "JobPosting") {
		t.Fatalf("expected case-insensitive match")
	}
	if !typeIs(map[string]any{"@type": []any{"Thing", "JobPosting"}}, "JobPosting") {
		t.Fatalf("expected list match")
	}
	if typeIs(map[string]any{"@type": "Organization"}, "JobPosting") {
		t.Fatalf("unexpected match")
	}
}

func TestParserFor(t *testing.T) {
	for _, kind := range []Kind{KindStructured, KindAnchor, KindPortal} {
		parser, err := ParserFor(kind)
		if err != nil {
			t.Fatalf("ParserFor(%s): %v", kind, err)
		}
		if parser.Kind() != kind {
			t.Fatalf("ParserFor(%s) returned %s", kind, parser.Kind())
		}
	}
	if _, err := ParserFor(KindAPI); err != ErrNotImplemented {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}
