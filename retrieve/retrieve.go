// Package retrieve provides hybrid retrieval over stored chunks, fusing
// vector similarity with lexical full-text ranking.
package retrieve

import (
	"context"
	"math"
	"sort"

	"github.com/fwojciec/recall"
)

// rrfK is the reciprocal-rank constant for the lexical boost (standard
// value from the RRF literature).
const rrfK = 60

// Compile-time interface verification.
var _ recall.Retriever = (*Retriever)(nil)

// Retriever implements recall.Retriever by brute-force cosine scoring of
// every stored chunk, with an additive lexical boost for chunks that also
// rank under the full-text index. Additive rather than multiplicative so a
// strong semantic match with no literal keyword overlap is never zeroed out.
type Retriever struct {
	items    recall.ItemService
	chunks   recall.ChunkService
	embedder recall.Embedder
	config   recall.Config
}

// NewRetriever creates a new Retriever.
func NewRetriever(items recall.ItemService, chunks recall.ChunkService, embedder recall.Embedder, config recall.Config) *Retriever {
	return &Retriever{items: items, chunks: chunks, embedder: embedder, config: config}
}

// Search returns the top topK distinct chunks by fused score, descending,
// ties broken by ascending chunk ID. When the stored embeddings were
// written under a different model or dimension than the active embedder,
// the outcome carries ReindexRequired instead of scores against
// incompatible vectors.
func (r *Retriever) Search(ctx context.Context, query string, topK int) (*recall.Retrieval, error) {
	if query == "" {
		return nil, recall.Errorf(recall.EINVALID, "query required")
	}
	if topK <= 0 {
		topK = r.config.TopK
	}

	state, err := r.chunks.EmbeddingState(ctx)
	if err != nil && recall.ErrorCode(err) != recall.ENOTFOUND {
		return nil, err
	}
	if state != nil && (state.Dimension != r.embedder.Dimension() || state.ModelID != r.embedder.ModelID()) {
		return &recall.Retrieval{ReindexRequired: true}, nil
	}

	chunks, err := r.chunks.AllChunks(ctx)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &recall.Retrieval{}, nil
	}

	queryVec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(queryVec) != r.embedder.Dimension() {
		return nil, recall.Errorf(recall.EINTERNAL, "embedder returned %d-dimensional query vector, expected %d", len(queryVec), r.embedder.Dimension())
	}
	queryVec = normalize(queryVec)

	// Lexical candidates: a pool a few times larger than topK so the boost
	// can promote chunks sitting just below the vector cutoff.
	lexRank := make(map[int64]int)
	matches, err := r.chunks.SearchLexical(ctx, query, topK*4)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		lexRank[m.ChunkID] = i + 1
	}

	results := make([]recall.RetrievalResult, 0, len(chunks))
	for _, c := range chunks {
		// Stale rows are a reindex condition, never silently wrong scores.
		if c.EmbeddingDim != r.embedder.Dimension() || c.EmbeddingModel != r.embedder.ModelID() {
			return &recall.Retrieval{ReindexRequired: true}, nil
		}

		score := dot(queryVec, normalize(c.Embedding))
		if rank, ok := lexRank[c.ID]; ok {
			score += r.config.LexicalWeight / float64(rrfK+rank)
		}

		results = append(results, recall.RetrievalResult{
			ChunkID: c.ID,
			ItemID:  c.ItemID,
			Content: c.Content,
			Score:   score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > topK {
		results = results[:topK]
	}

	if err := r.attachSources(ctx, results); err != nil {
		return nil, err
	}

	return &recall.Retrieval{Results: results}, nil
}

// attachSources denormalizes item metadata onto each result.
func (r *Retriever) attachSources(ctx context.Context, results []recall.RetrievalResult) error {
	refs := make(map[string]recall.SourceRef)
	for i, res := range results {
		ref, ok := refs[res.ItemID]
		if !ok {
			item, err := r.items.FindItemByID(ctx, res.ItemID)
			if err != nil {
				return err
			}
			url := item.CanonicalURL
			if url == "" {
				url = item.SourceURL
			}
			ref = recall.SourceRef{
				ItemID:  item.ID,
				Title:   item.Title,
				Label:   item.SourceLabel,
				URL:     url,
				Snippet: snippet(item.Content, 160),
			}
			if ref.Title == "" {
				ref.Title = item.SourceLabel
			}
			refs[res.ItemID] = ref
		}
		results[i].Source = ref
	}
	return nil
}

// snippet returns the first n characters of s, cut at a rune boundary.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// normalize returns the L2-normalized copy of v. A zero vector is returned
// unchanged so it scores zero against everything.
func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) * inv)
	}
	return out
}

// dot computes the dot product of two equal-length vectors. With both
// inputs L2-normalized this is the cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
