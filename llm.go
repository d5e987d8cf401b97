package recall

import "context"

// Generator is the optional large-language-model augmentation port.
// Implementations are external and may be unavailable; callers must treat
// every failure as soft and fall back to the deterministic path.
type Generator interface {
	// Generate produces text for the prompt under the system instruction.
	// The context carries the timeout; an empty result is a valid outcome.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Stream produces text incrementally. The returned channel is closed
	// when generation completes or ctx is canceled.
	Stream(ctx context.Context, system, prompt string) (<-chan string, error)
}
