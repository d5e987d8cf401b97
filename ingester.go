package recall

import "context"

// Ingester performs fetch/extract/chunk/embed/store-insert as one unit of
// work. The ingestion queue worker consumes it; the presentation layer calls
// IngestText directly for pasted content.
type Ingester interface {
	// IngestURL fetches, extracts and stores the content at the given
	// canonical URL. Returns the stored item, or the existing item when
	// the extracted content deduplicates against a previous save.
	IngestURL(ctx context.Context, canonicalURL, savedFrom string) (*Item, error)

	// IngestText stores a block of pasted text.
	IngestText(ctx context.Context, text, savedFrom string) (*Item, error)
}
