// Package mock provides function-field mock implementations of every
// recall port for use in tests.
package mock

import (
	"context"

	"github.com/fwojciec/recall"
)

var _ recall.Ingester = (*Ingester)(nil)

// Ingester is a mock implementation of recall.Ingester.
type Ingester struct {
	IngestURLFn  func(ctx context.Context, canonicalURL, savedFrom string) (*recall.Item, error)
	IngestTextFn func(ctx context.Context, text, savedFrom string) (*recall.Item, error)
}

func (i *Ingester) IngestURL(ctx context.Context, canonicalURL, savedFrom string) (*recall.Item, error) {
	return i.IngestURLFn(ctx, canonicalURL, savedFrom)
}

func (i *Ingester) IngestText(ctx context.Context, text, savedFrom string) (*recall.Item, error) {
	return i.IngestTextFn(ctx, text, savedFrom)
}

var _ recall.Generator = (*Generator)(nil)

// Generator is a mock implementation of recall.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, system, prompt string) (string, error)
	StreamFn   func(ctx context.Context, system, prompt string) (<-chan string, error)
}

func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return g.GenerateFn(ctx, system, prompt)
}

func (g *Generator) Stream(ctx context.Context, system, prompt string) (<-chan string, error) {
	return g.StreamFn(ctx, system, prompt)
}

var _ recall.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of recall.Retriever.
type Retriever struct {
	SearchFn func(ctx context.Context, query string, topK int) (*recall.Retrieval, error)
}

func (r *Retriever) Search(ctx context.Context, query string, topK int) (*recall.Retrieval, error) {
	return r.SearchFn(ctx, query, topK)
}

var _ recall.Synthesizer = (*Synthesizer)(nil)

// Synthesizer is a mock implementation of recall.Synthesizer.
type Synthesizer struct {
	GenerateFn func(ctx context.Context, results []recall.RetrievalResult, query string) (*recall.Answer, error)
}

func (s *Synthesizer) Generate(ctx context.Context, results []recall.RetrievalResult, query string) (*recall.Answer, error) {
	return s.GenerateFn(ctx, results, query)
}

var _ recall.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of recall.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ recall.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of recall.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*recall.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*recall.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ recall.Converter = (*Converter)(nil)

// Converter is a mock implementation of recall.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
