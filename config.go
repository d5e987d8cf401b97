package recall

import "time"

// Config carries tunable thresholds for the queue, retriever and
// synthesizer. It is an immutable value threaded through constructors;
// nothing in this module reads ambient global state.
type Config struct {
	// MaxAttempts is the number of ingestion failures before a job is
	// dead-lettered.
	MaxAttempts int

	// BackoffBase and BackoffCap bound the retry schedule: the delay after
	// n failures is min(BackoffCap, BackoffBase * 2^(n-1)).
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// WorkerMaxSleep caps how long the ingestion worker sleeps before
	// re-checking the queue when no job is ready.
	WorkerMaxSleep time.Duration

	// FetchTimeout bounds a single content fetch.
	FetchTimeout time.Duration

	// MaxContentChars truncates extracted content; truncated items carry
	// the Truncated flag.
	MaxContentChars int

	// ChunkTargetChars and ChunkMaxChars control chunking granularity.
	ChunkTargetChars int
	ChunkMaxChars    int

	// TopK is the default number of chunks retrieval returns.
	TopK int

	// LexicalWeight scales the additive lexical boost in hybrid fusion.
	LexicalWeight float64

	// ScoreGap is the source-relevance filter: only items whose best chunk
	// score is within ScoreGap of the overall best contribute evidence.
	ScoreGap float64

	// ConfidenceThreshold is the minimum best-match score for the
	// confident answer format; below it the synthesizer hedges.
	ConfidenceThreshold float64

	// LLMTimeout bounds the optional augmentation call.
	LLMTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:         6,
		BackoffBase:         15 * time.Second,
		BackoffCap:          time.Hour,
		WorkerMaxSleep:      5 * time.Minute,
		FetchTimeout:        10 * time.Second,
		MaxContentChars:     200_000,
		ChunkTargetChars:    1200,
		ChunkMaxChars:       2000,
		TopK:                8,
		LexicalWeight:       3.0,
		ScoreGap:            0.04,
		ConfidenceThreshold: 0.18,
		LLMTimeout:          30 * time.Second,
	}
}
