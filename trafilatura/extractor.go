// Package trafilatura provides the primary implementation of
// recall.Extractor, wrapping go-trafilatura's boilerplate removal.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/recall"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements recall.Extractor at compile time.
var _ recall.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content, the page title
// and the page's declared canonical URL when one is present in metadata.
func (e *Extractor) Extract(rawHTML string) (*recall.ExtractResult, error) {
	if rawHTML == "" {
		return nil, recall.Errorf(recall.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &recall.ExtractResult{
		Title:        result.Metadata.Title,
		ContentHTML:  contentHTML,
		CanonicalURL: result.Metadata.URL,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
