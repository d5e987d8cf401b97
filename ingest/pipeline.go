// Package ingest turns saved URLs and pasted text into stored, embedded
// knowledge items. It contains the fetch/extract/chunk/embed pipeline, the
// queue worker that drives it, and the reindexer that re-embeds stored
// chunks after a model change.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/bloom"
)

// Compile-time interface verification.
var _ recall.Ingester = (*Pipeline)(nil)

// Pipeline implements recall.Ingester.
type Pipeline struct {
	fetcher   recall.Fetcher
	extractor recall.Extractor
	fallback  recall.Extractor // used when the primary extractor yields nothing
	converter recall.Converter
	embedder  recall.Embedder
	items     recall.ItemService
	chunks    recall.ChunkService
	seen      *bloom.Filter
	config    recall.Config
}

// NewPipeline creates a new ingestion Pipeline. The fallback extractor may
// be nil.
func NewPipeline(
	fetcher recall.Fetcher,
	extractor recall.Extractor,
	fallback recall.Extractor,
	converter recall.Converter,
	embedder recall.Embedder,
	items recall.ItemService,
	chunks recall.ChunkService,
	config recall.Config,
) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		fallback:  fallback,
		converter: converter,
		embedder:  embedder,
		items:     items,
		chunks:    chunks,
		seen:      bloom.NewFilter(100_000, 0.01),
		config:    config,
	}
}

// Warm seeds the dedup prefilter with the content hashes of every stored
// item. Until warmed, every ingest falls through to a database lookup.
func (p *Pipeline) Warm(ctx context.Context) error {
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		items, err := p.items.FindItems(ctx, recall.ItemFilter{Offset: offset, Limit: pageSize})
		if err != nil {
			return err
		}
		for _, item := range items {
			p.seen.Add(item.ContentHash)
		}
		if len(items) < pageSize {
			return nil
		}
	}
}

// IngestURL fetches, extracts, chunks, embeds and stores the content at
// the given canonical URL. When the extracted content hashes to an already
// stored item, that item is returned unchanged.
func (p *Pipeline) IngestURL(ctx context.Context, canonicalURL, savedFrom string) (*recall.Item, error) {
	if canonicalURL == "" {
		return nil, recall.Errorf(recall.EINVALID, "url required")
	}

	fetchCtx := ctx
	if p.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.config.FetchTimeout)
		defer cancel()
	}
	html, err := p.fetcher.Fetch(fetchCtx, canonicalURL)
	if err != nil {
		return nil, err
	}

	extracted, err := p.extract(html)
	if err != nil {
		return nil, err
	}

	markdown, err := p.converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, recall.Errorf(recall.EINVALID, "no content extracted from %s", canonicalURL)
	}

	markdown, truncated := truncate(markdown, p.config.MaxContentChars)

	item := &recall.Item{
		Title:        extracted.Title,
		SourceURL:    canonicalURL,
		Content:      markdown,
		SourceLabel:  sourceLabel(canonicalURL),
		Truncated:    truncated,
		CanonicalURL: canonicalURL,
		SavedFrom:    savedFrom,
	}
	if extracted.CanonicalURL != "" {
		item.CanonicalURL = extracted.CanonicalURL
	}

	return p.store(ctx, item)
}

// IngestText stores a block of pasted text directly, skipping fetch and
// extraction.
func (p *Pipeline) IngestText(ctx context.Context, text, savedFrom string) (*recall.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, recall.Errorf(recall.EINVALID, "text required")
	}

	text, truncated := truncate(text, p.config.MaxContentChars)

	item := &recall.Item{
		Title:       textTitle(text),
		Content:     text,
		SourceLabel: "paste",
		Truncated:   truncated,
		SavedFrom:   savedFrom,
	}

	return p.store(ctx, item)
}

// store deduplicates by content hash, chunks, embeds and inserts the item
// transactionally.
func (p *Pipeline) store(ctx context.Context, item *recall.Item) (*recall.Item, error) {
	item.ContentHash = recall.HashContent(item.Content)

	// The prefilter answers "definitely new" cheaply; a positive still
	// needs a confirming lookup because of false positives.
	if p.seen.Test(item.ContentHash) {
		existing, err := p.items.FindItemByContentHash(ctx, item.ContentHash)
		if err == nil {
			return existing, nil
		}
		if recall.ErrorCode(err) != recall.ENOTFOUND {
			return nil, err
		}
	}

	texts := recall.SplitChunks(item.Content, p.config.ChunkTargetChars, p.config.ChunkMaxChars)
	chunks := make([]*recall.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &recall.Chunk{Position: i, Content: text}
	}

	if p.embedder.Available() && len(texts) > 0 {
		vectors, err := p.embedder.Embed(ctx, texts, nil)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(texts) {
			return nil, recall.Errorf(recall.EINTERNAL, "embedder returned %d vectors for %d chunks", len(vectors), len(texts))
		}
		for i, vec := range vectors {
			chunks[i].Embedding = vec
			chunks[i].EmbeddingModel = p.embedder.ModelID()
			chunks[i].EmbeddingDim = p.embedder.Dimension()
		}
	}

	if err := p.items.CreateItemWithChunks(ctx, item, chunks); err != nil {
		return nil, err
	}
	p.seen.Add(item.ContentHash)

	if err := p.recordEmbeddingState(ctx); err != nil {
		return nil, err
	}

	return item, nil
}

// recordEmbeddingState sets the store-wide embedding state on first embed.
// An already recorded state is left alone: changing it is the reindexer's
// job, after every chunk has been re-embedded.
func (p *Pipeline) recordEmbeddingState(ctx context.Context) error {
	if !p.embedder.Available() {
		return nil
	}
	_, err := p.chunks.EmbeddingState(ctx)
	if err == nil {
		return nil
	}
	if recall.ErrorCode(err) != recall.ENOTFOUND {
		return err
	}
	return p.chunks.SetEmbeddingState(ctx, recall.EmbeddingState{
		ModelID:   p.embedder.ModelID(),
		Dimension: p.embedder.Dimension(),
	})
}

// extract runs the primary extractor and falls back to the secondary when
// the primary fails or returns empty content.
func (p *Pipeline) extract(html string) (*recall.ExtractResult, error) {
	result, err := p.extractor.Extract(html)
	if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
		return result, nil
	}
	if p.fallback == nil {
		if err != nil {
			return nil, err
		}
		return nil, recall.Errorf(recall.EINVALID, "extraction produced no content")
	}
	return p.fallback.Extract(html)
}

// truncate cuts content at the limit, on a rune boundary, and reports
// whether anything was cut.
func truncate(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return strings.TrimSpace(string(runes[:limit])), true
}

// sourceLabel derives a short human label from a URL, the bare host
// without a www prefix.
func sourceLabel(rawURL string) string {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "web"
	}
	return host
}

// textTitle derives a title for pasted text from its first line.
func textTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimLeft(strings.TrimSpace(line), "#- ")
	const maxTitle = 80
	runes := []rune(line)
	if len(runes) > maxTitle {
		line = strings.TrimSpace(string(runes[:maxTitle]))
	}
	if line == "" {
		return "Pasted text " + time.Now().UTC().Format("2006-01-02")
	}
	return line
}
