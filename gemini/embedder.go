// Package gemini implements the embedding and generation ports using the
// Google Gemini API.
package gemini

import (
	"context"

	"github.com/fwojciec/recall"
	"google.golang.org/genai"
)

const (
	embeddingModel     = "gemini-embedding-001"
	embeddingDimension = 768

	// The embedding endpoint caps the number of contents per request.
	embedBatchSize = 100
)

// Ensure Embedder implements recall.Embedder at compile time.
var _ recall.Embedder = (*Embedder)(nil)

// Embedder implements recall.Embedder using Gemini embedding models.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder. A nil client yields an embedder that
// reports itself unavailable, which keeps ingestion working without an API
// key.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed computes embeddings for a batch of texts, in order, batching API
// calls as needed. The progress callback, if non-nil, is invoked after
// each batch.
func (e *Embedder) Embed(ctx context.Context, texts []string, progress recall.EmbedProgressFunc) ([][]float32, error) {
	if e.client == nil {
		return nil, recall.Errorf(recall.EUNAVAILABLE, "embedding model unavailable")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, embedConfig("RETRIEVAL_DOCUMENT"))
		if err != nil {
			return nil, err
		}
		if result == nil || len(result.Embeddings) != end-start {
			return nil, recall.Errorf(recall.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(result), end-start)
		}
		for _, emb := range result.Embeddings {
			out = append(out, emb.Values)
		}

		if progress != nil {
			progress(end, len(texts))
		}
	}
	return out, nil
}

// EmbedOne computes the embedding for a single query text.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, recall.Errorf(recall.EUNAVAILABLE, "embedding model unavailable")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		embedConfig("RETRIEVAL_QUERY"),
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != 1 {
		return nil, recall.Errorf(recall.EINTERNAL, "gemini returned %d embeddings for one text", embeddingCount(result))
	}
	return result.Embeddings[0].Values, nil
}

// ModelID identifies the embedding model.
func (e *Embedder) ModelID() string { return embeddingModel }

// Dimension is the length of vectors the model produces.
func (e *Embedder) Dimension() int { return embeddingDimension }

// Available reports whether the embedder has a configured client.
func (e *Embedder) Available() bool { return e.client != nil }

func embedConfig(taskType string) *genai.EmbedContentConfig {
	dim := int32(embeddingDimension)
	return &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	}
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
