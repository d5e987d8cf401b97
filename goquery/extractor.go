// Package goquery provides a selector-based fallback implementation of
// recall.Extractor for pages where trafilatura's heuristics come up empty.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/recall"
)

// contentSelectors are tried in order; the first non-trivial match wins.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	"#content",
	".post-content",
	".entry-content",
	".content",
}

// chromeSelectors are stripped from whatever content region is selected.
var chromeSelectors = []string{
	"nav", "header", "footer", "aside",
	"script", "style", "noscript", "iframe", "form",
}

// Ensure Extractor implements recall.Extractor at compile time.
var _ recall.Extractor = (*Extractor)(nil)

// Extractor extracts main content using CSS selector heuristics. It is
// cruder than trafilatura but always produces something for well-formed
// pages, which makes it the fallback of the ingestion pipeline.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*recall.ExtractResult, error) {
	if rawHTML == "" {
		return nil, recall.Errorf(recall.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, recall.Errorf(recall.EINVALID, "failed to parse HTML: %v", err)
	}

	content := selectContent(doc)
	if content == nil {
		return nil, recall.Errorf(recall.EINVALID, "no content found")
	}

	content.Find(strings.Join(chromeSelectors, ", ")).Remove()

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content.Text()) == "" {
		return nil, recall.Errorf(recall.EINVALID, "no content found")
	}

	return &recall.ExtractResult{
		Title:        pageTitle(doc),
		ContentHTML:  contentHTML,
		CanonicalURL: canonicalURL(doc),
	}, nil
}

// selectContent returns the first selector match with non-trivial text,
// falling back to body.
func selectContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 && len(strings.TrimSpace(sel.Text())) > 0 {
			return sel
		}
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return body
}

// pageTitle prefers the og:title meta tag over the document title.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok && og != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// canonicalURL reads the page's declared canonical link, if any.
func canonicalURL(doc *goquery.Document) string {
	href, _ := doc.Find("link[rel='canonical']").First().Attr("href")
	return strings.TrimSpace(href)
}
