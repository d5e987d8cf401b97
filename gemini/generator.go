package gemini

import (
	"context"

	"github.com/fwojciec/recall"
	"google.golang.org/genai"
)

const generationModel = "gemini-2.5-flash"

// Ensure Generator implements recall.Generator at compile time.
var _ recall.Generator = (*Generator)(nil)

// Generator implements recall.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces a single completion for the prompt.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g.client == nil {
		return "", recall.Errorf(recall.EUNAVAILABLE, "generation model unavailable")
	}
	if prompt == "" {
		return "", recall.Errorf(recall.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, generationModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		generateConfig(system),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", recall.Errorf(recall.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// Stream produces a completion incrementally. The returned channel is
// closed when generation finishes or the context is canceled.
func (g *Generator) Stream(ctx context.Context, system, prompt string) (<-chan string, error) {
	if g.client == nil {
		return nil, recall.Errorf(recall.EUNAVAILABLE, "generation model unavailable")
	}
	if prompt == "" {
		return nil, recall.Errorf(recall.EINVALID, "prompt required")
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for result, err := range g.client.Models.GenerateContentStream(ctx, generationModel,
			[]*genai.Content{{
				Parts: []*genai.Part{{Text: prompt}},
			}},
			generateConfig(system),
		) {
			if err != nil {
				return
			}
			text := result.Text()
			if text == "" {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func generateConfig(system string) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return config
}
