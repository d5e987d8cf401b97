package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/ingest"
	"github.com/fwojciec/recall/mock"
	"github.com/fwojciec/recall/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmbedder(model string, dim int) *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(ctx context.Context, texts []string, progress recall.EmbedProgressFunc) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i := range vecs {
				vecs[i] = make([]float32, dim)
				vecs[i][0] = 1
			}
			return vecs, nil
		},
		ModelIDFn:   func() string { return model },
		DimensionFn: func() int { return dim },
		AvailableFn: func() bool { return true },
	}
}

// pipelineFixture wires a Pipeline to recording mocks.
type pipelineFixture struct {
	fetcher   *mock.Fetcher
	extractor *mock.Extractor
	converter *mock.Converter
	embedder  *mock.Embedder
	items     *mock.ItemService
	chunks    *mock.ChunkService

	createdItem   *recall.Item
	createdChunks []*recall.Chunk
	stateSet      *recall.EmbeddingState
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html><body><article><p>Fetched body text.</p></article></body></html>", nil
			},
		},
		extractor: &mock.Extractor{
			ExtractFn: func(html string) (*recall.ExtractResult, error) {
				return &recall.ExtractResult{Title: "Fetched Page", ContentHTML: "<p>Fetched body text.</p>"}, nil
			},
		},
		converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "Fetched body text.", nil
			},
		},
		embedder: testEmbedder("embed-v1", 4),
	}
	f.items = &mock.ItemService{
		CreateItemWithChunksFn: func(ctx context.Context, item *recall.Item, chunks []*recall.Chunk) error {
			f.createdItem = item
			f.createdChunks = chunks
			return nil
		},
		FindItemByContentHashFn: func(ctx context.Context, hash string) (*recall.Item, error) {
			return nil, recall.Errorf(recall.ENOTFOUND, "item not found")
		},
		FindItemsFn: func(ctx context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
			return nil, nil
		},
	}
	f.chunks = &mock.ChunkService{
		EmbeddingStateFn: func(ctx context.Context) (*recall.EmbeddingState, error) {
			return nil, recall.Errorf(recall.ENOTFOUND, "no embedding state")
		},
		SetEmbeddingStateFn: func(ctx context.Context, state recall.EmbeddingState) error {
			f.stateSet = &state
			return nil
		},
	}
	return f
}

func (f *pipelineFixture) pipeline(config recall.Config) *ingest.Pipeline {
	return ingest.NewPipeline(f.fetcher, f.extractor, nil, f.converter, f.embedder, f.items, f.chunks, config)
}

func TestPipeline_IngestURL(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	p := f.pipeline(recall.DefaultConfig())

	item, err := p.IngestURL(context.Background(), "https://example.com/post", "cli")
	require.NoError(t, err)

	assert.Equal(t, "Fetched Page", item.Title)
	assert.Equal(t, "https://example.com/post", item.SourceURL)
	assert.Equal(t, "example.com", item.SourceLabel)
	assert.Equal(t, "cli", item.SavedFrom)
	assert.Equal(t, recall.HashContent("Fetched body text."), item.ContentHash)

	require.NotNil(t, f.createdItem)
	require.Len(t, f.createdChunks, 1)
	assert.Equal(t, "Fetched body text.", f.createdChunks[0].Content)
	assert.Equal(t, "embed-v1", f.createdChunks[0].EmbeddingModel)
	assert.Len(t, f.createdChunks[0].Embedding, 4)

	require.NotNil(t, f.stateSet)
	assert.Equal(t, "embed-v1", f.stateSet.ModelID)
	assert.Equal(t, 4, f.stateSet.Dimension)
}

func TestPipeline_IngestURL_PageCanonicalWins(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.extractor.ExtractFn = func(html string) (*recall.ExtractResult, error) {
		return &recall.ExtractResult{
			Title:        "Fetched Page",
			ContentHTML:  "<p>Fetched body text.</p>",
			CanonicalURL: "https://example.com/canonical",
		}, nil
	}
	p := f.pipeline(recall.DefaultConfig())

	item, err := p.IngestURL(context.Background(), "https://example.com/post?x=1", "cli")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/canonical", item.CanonicalURL)
}

func TestPipeline_IngestURL_FetchError(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.fetcher.FetchFn = func(ctx context.Context, url string) (string, error) {
		return "", errors.New("connection refused")
	}
	p := f.pipeline(recall.DefaultConfig())

	_, err := p.IngestURL(context.Background(), "https://example.com/post", "cli")
	assert.Error(t, err)
	assert.Nil(t, f.createdItem)
}

func TestPipeline_IngestURL_FallbackExtractor(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.extractor.ExtractFn = func(html string) (*recall.ExtractResult, error) {
		return nil, errors.New("no main content found")
	}
	fallback := &mock.Extractor{
		ExtractFn: func(html string) (*recall.ExtractResult, error) {
			return &recall.ExtractResult{Title: "Fallback Title", ContentHTML: "<p>Fallback text.</p>"}, nil
		},
	}
	p := ingest.NewPipeline(f.fetcher, f.extractor, fallback, f.converter, f.embedder, f.items, f.chunks, recall.DefaultConfig())

	item, err := p.IngestURL(context.Background(), "https://example.com/post", "cli")
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", item.Title)
}

func TestPipeline_IngestText(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	p := f.pipeline(recall.DefaultConfig())

	item, err := p.IngestText(context.Background(), "Meeting notes\n\nDiscussed roadmap for the second quarter.", "cli")
	require.NoError(t, err)

	assert.Equal(t, "Meeting notes", item.Title)
	assert.Equal(t, "paste", item.SourceLabel)
	assert.Empty(t, item.SourceURL)
	require.NotNil(t, f.createdItem)
}

func TestPipeline_IngestText_Empty(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	p := f.pipeline(recall.DefaultConfig())

	_, err := p.IngestText(context.Background(), "  \n ", "cli")
	assert.Equal(t, recall.EINVALID, recall.ErrorCode(err))
}

func TestPipeline_DeduplicatesByContentHash(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()

	var stored *recall.Item
	f.items.CreateItemWithChunksFn = func(ctx context.Context, item *recall.Item, chunks []*recall.Chunk) error {
		item.ID = "stored-id"
		stored = item
		return nil
	}
	f.items.FindItemByContentHashFn = func(ctx context.Context, hash string) (*recall.Item, error) {
		if stored != nil && stored.ContentHash == hash {
			return stored, nil
		}
		return nil, recall.Errorf(recall.ENOTFOUND, "item not found")
	}

	p := f.pipeline(recall.DefaultConfig())

	first, err := p.IngestText(context.Background(), "Identical pasted content.", "cli")
	require.NoError(t, err)

	second, err := p.IngestText(context.Background(), "Identical pasted content.", "cli")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestPipeline_TruncatesLongContent(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	config := recall.DefaultConfig()
	config.MaxContentChars = 50

	p := f.pipeline(config)

	item, err := p.IngestText(context.Background(), strings.Repeat("long pasted text ", 20), "cli")
	require.NoError(t, err)
	assert.True(t, item.Truncated)
	assert.LessOrEqual(t, len(item.Content), 50)
}

func TestPipeline_EmbedderUnavailableStoresWithoutVectors(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.embedder.AvailableFn = func() bool { return false }
	p := f.pipeline(recall.DefaultConfig())

	_, err := p.IngestText(context.Background(), "Stored without any embedding vectors.", "cli")
	require.NoError(t, err)

	require.Len(t, f.createdChunks, 1)
	assert.Nil(t, f.createdChunks[0].Embedding)
	assert.Nil(t, f.stateSet)
}

// The no-API-key path must survive the real store's validation, not just
// recording mocks: chunks without vectors are inserted and read back.
func TestPipeline_EmbedderUnavailableStoresToSQLite(t *testing.T) {
	t.Parallel()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	items := sqlite.NewItemService(db)
	chunks := sqlite.NewChunkService(db)
	embedder := &mock.Embedder{AvailableFn: func() bool { return false }}

	p := ingest.NewPipeline(nil, nil, nil, nil, embedder, items, chunks, recall.DefaultConfig())

	item, err := p.IngestText(context.Background(), "Stored without any embedding vectors.", "cli")
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	stored, err := chunks.FindChunksByItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Stored without any embedding vectors.", stored[0].Content)
	assert.Empty(t, stored[0].Embedding)
	assert.Zero(t, stored[0].EmbeddingDim)
}

func TestPipeline_EmbedErrorAborts(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.embedder.EmbedFn = func(ctx context.Context, texts []string, progress recall.EmbedProgressFunc) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}
	p := f.pipeline(recall.DefaultConfig())

	_, err := p.IngestText(context.Background(), "This text will fail to embed.", "cli")
	assert.Error(t, err)
	assert.Nil(t, f.createdItem)
}

func TestPipeline_PreservesExistingEmbeddingState(t *testing.T) {
	t.Parallel()

	f := newPipelineFixture()
	f.chunks.EmbeddingStateFn = func(ctx context.Context) (*recall.EmbeddingState, error) {
		return &recall.EmbeddingState{ModelID: "embed-v0", Dimension: 4}, nil
	}
	p := f.pipeline(recall.DefaultConfig())

	_, err := p.IngestText(context.Background(), "More content for an existing store.", "cli")
	require.NoError(t, err)
	assert.Nil(t, f.stateSet)
}
