package recall

import "context"

// SourceRef is a denormalized reference to the item a piece of evidence
// came from, suitable for attaching to answers as a citation.
type SourceRef struct {
	ItemID  string `json:"itemId"`
	Title   string `json:"title"`
	Label   string `json:"label,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// RetrievalResult is a single ranked chunk returned by the retriever.
type RetrievalResult struct {
	ChunkID int64     `json:"chunkId"`
	ItemID  string    `json:"itemId"`
	Content string    `json:"content"`
	Score   float64   `json:"score"`
	Source  SourceRef `json:"source"`
}

// Retrieval is the outcome of a search. Staleness is a first-class branch,
// not an error: when ReindexRequired is true the stored embeddings were
// written under a different model or dimension than the active Embedder and
// Results is empty.
type Retrieval struct {
	ReindexRequired bool              `json:"reindexRequired"`
	Results         []RetrievalResult `json:"results"`
}

// Retriever ranks stored chunks against a natural-language query.
type Retriever interface {
	// Search returns the top topK distinct chunks by fused score,
	// descending, ties broken by ascending chunk ID so identical inputs
	// always produce identical output. An empty store yields an empty
	// result list, not an error.
	Search(ctx context.Context, query string, topK int) (*Retrieval, error)
}
