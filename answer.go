package recall

import "context"

// Answer is a synthesized response: final text plus an ordered,
// deduplicated list of source references, first-seen order preserved.
type Answer struct {
	Text    string      `json:"text"`
	Sources []SourceRef `json:"sources"`
}

// Synthesizer turns ranked retrieval results into a cited answer.
type Synthesizer interface {
	// Generate produces an answer for the query from the given results.
	// The baseline path is deterministic and makes no external calls; any
	// augmentation failure falls back to it, so a question always gets
	// some answer.
	Generate(ctx context.Context, results []RetrievalResult, query string) (*Answer, error)
}
