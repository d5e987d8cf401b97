package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/recall"
	main "github.com/fwojciec/recall/cmd/recall"
	"github.com/fwojciec/recall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints answer and numbered sources", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, query string, topK int) (*recall.Retrieval, error) {
				assert.Equal(t, "how do I feed a starter?", query)
				assert.Equal(t, 0, topK)
				return &recall.Retrieval{
					Results: []recall.RetrievalResult{
						{ItemID: "item-1", Content: "Feed daily.", Score: 0.8},
					},
				}, nil
			},
		}
		synthesizer := &mock.Synthesizer{
			GenerateFn: func(_ context.Context, results []recall.RetrievalResult, _ string) (*recall.Answer, error) {
				require.Len(t, results, 1)
				return &recall.Answer{
					Text: "Feed the starter daily.",
					Sources: []recall.SourceRef{
						{ItemID: "item-1", Title: "Sourdough Guide", URL: "https://example.com/sourdough"},
						{ItemID: "item-2", Title: "Pasted note"},
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      stdout,
			Stderr:      &bytes.Buffer{},
			Retriever:   retriever,
			Synthesizer: synthesizer,
		}

		cmd := &main.AskCmd{Question: "how do I feed a starter?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Feed the starter daily.")
		assert.Contains(t, stdout.String(), "Sources:")
		assert.Contains(t, stdout.String(), "1. Sourdough Guide <https://example.com/sourdough>")
		assert.Contains(t, stdout.String(), "2. Pasted note")
	})

	t.Run("omits sources section when there are none", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, _ int) (*recall.Retrieval, error) {
				return &recall.Retrieval{}, nil
			},
		}
		synthesizer := &mock.Synthesizer{
			GenerateFn: func(_ context.Context, _ []recall.RetrievalResult, _ string) (*recall.Answer, error) {
				return &recall.Answer{Text: "Nothing saved yet.", Sources: []recall.SourceRef{}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      stdout,
			Stderr:      &bytes.Buffer{},
			Retriever:   retriever,
			Synthesizer: synthesizer,
		}

		cmd := &main.AskCmd{Question: "anything?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.NotContains(t, stdout.String(), "Sources:")
	})

	t.Run("warns on stale embeddings", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, _ int) (*recall.Retrieval, error) {
				return &recall.Retrieval{ReindexRequired: true}, nil
			},
		}
		synthesizer := &mock.Synthesizer{
			GenerateFn: func(_ context.Context, _ []recall.RetrievalResult, _ string) (*recall.Answer, error) {
				return &recall.Answer{Text: "No strong match.", Sources: []recall.SourceRef{}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      stdout,
			Stderr:      stderr,
			Retriever:   retriever,
			Synthesizer: synthesizer,
		}

		cmd := &main.AskCmd{Question: "anything?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "recall reindex")
		// The answer still prints; staleness degrades, it doesn't block.
		assert.Contains(t, stdout.String(), "No strong match.")
	})

	t.Run("passes --top-k through", func(t *testing.T) {
		t.Parallel()

		var gotTopK int
		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, topK int) (*recall.Retrieval, error) {
				gotTopK = topK
				return &recall.Retrieval{}, nil
			},
		}
		synthesizer := &mock.Synthesizer{
			GenerateFn: func(_ context.Context, _ []recall.RetrievalResult, _ string) (*recall.Answer, error) {
				return &recall.Answer{Text: "ok", Sources: []recall.SourceRef{}}, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      &bytes.Buffer{},
			Stderr:      &bytes.Buffer{},
			Retriever:   retriever,
			Synthesizer: synthesizer,
		}

		cmd := &main.AskCmd{Question: "anything?", TopK: 5}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, gotTopK)
	})

	t.Run("--llm rewrites the answer with the generator", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, _ int) (*recall.Retrieval, error) {
				return &recall.Retrieval{
					Results: []recall.RetrievalResult{
						{
							ItemID:  "item-1",
							Content: "A sourdough starter requires daily feeding. The dough will double in size overnight.",
							Score:   0.8,
							Source:  recall.SourceRef{ItemID: "item-1", Title: "Sourdough Guide"},
						},
					},
				}, nil
			},
		}
		generator := &mock.Generator{
			GenerateFn: func(_ context.Context, _, prompt string) (string, error) {
				assert.Contains(t, prompt, "how do I feed a starter?")
				return "Feed your starter once a day.", nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Config:    recall.DefaultConfig(),
			Retriever: retriever,
			Generator: generator,
		}

		cmd := &main.AskCmd{Question: "how do I feed a starter?", LLM: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Feed your starter once a day.")
		assert.Contains(t, stdout.String(), "Sourdough Guide")
	})

	t.Run("--llm warns and stays extractive without a generator", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, _ int) (*recall.Retrieval, error) {
				return &recall.Retrieval{}, nil
			},
		}
		synthesizer := &mock.Synthesizer{
			GenerateFn: func(_ context.Context, _ []recall.RetrievalResult, _ string) (*recall.Answer, error) {
				return &recall.Answer{Text: "Nothing saved yet.", Sources: []recall.SourceRef{}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      stdout,
			Stderr:      stderr,
			Config:      recall.DefaultConfig(),
			Retriever:   retriever,
			Synthesizer: synthesizer,
		}

		cmd := &main.AskCmd{Question: "anything?", LLM: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
		assert.Contains(t, stdout.String(), "Nothing saved yet.")
	})

	t.Run("returns error when search fails", func(t *testing.T) {
		t.Parallel()

		retriever := &mock.Retriever{
			SearchFn: func(_ context.Context, _ string, _ int) (*recall.Retrieval, error) {
				return nil, recall.Errorf(recall.EINTERNAL, "database error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Retriever: retriever,
		}

		cmd := &main.AskCmd{Question: "anything?"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
