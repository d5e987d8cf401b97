package main

import (
	"fmt"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/answer"
)

// Run executes the ask command: retrieve, synthesize, print answer and
// sources. The answer is extractive unless --llm is given.
func (c *AskCmd) Run(deps *Dependencies) error {
	retrieval, err := deps.Retriever.Search(deps.Ctx, c.Question, c.TopK)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	if retrieval.ReindexRequired {
		fmt.Fprintln(deps.Stderr, "Warning: stored embeddings don't match the current model. Run 'recall reindex'.")
	}

	synth := deps.Synthesizer
	if c.LLM {
		if deps.Generator == nil {
			fmt.Fprintln(deps.Stderr, "Warning: no language model configured; set GEMINI_API_KEY. Answering extractively.")
		} else {
			synth = answer.NewSynthesizer(deps.Generator, deps.Config)
		}
	}

	ans, err := synth.Generate(deps.Ctx, retrieval.Results, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, ans.Text)

	if len(ans.Sources) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Sources:")
		for i, src := range ans.Sources {
			line := fmt.Sprintf("%d. %s", i+1, src.Title)
			if src.URL != "" {
				line += " <" + src.URL + ">"
			}
			fmt.Fprintln(deps.Stdout, line)
		}
	}
	return nil
}
