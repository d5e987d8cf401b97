package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/answer"
	"github.com/fwojciec/recall/gemini"
	"github.com/fwojciec/recall/goquery"
	"github.com/fwojciec/recall/htmltomarkdown"
	recallhttp "github.com/fwojciec/recall/http"
	"github.com/fwojciec/recall/ingest"
	"github.com/fwojciec/recall/retrieve"
	"github.com/fwojciec/recall/rod"
	recallslog "github.com/fwojciec/recall/slog"
	"github.com/fwojciec/recall/sqlite"
	"github.com/fwojciec/recall/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services exposed for end-to-end testing.
	ItemService  recall.ItemService
	ChunkService recall.ChunkService
	QueueService recall.QueueService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: recall.DefaultConfig(),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("recall"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'recall --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set RECALL_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ItemService = sqlite.NewItemService(m.DB)
	m.ChunkService = sqlite.NewChunkService(m.DB)
	m.QueueService = sqlite.NewQueueService(m.DB, deps.Config)

	deps.DB = m.DB
	deps.Items = m.ItemService
	deps.Chunks = m.ChunkService
	deps.Queue = recallslog.NewLoggingQueueService(m.QueueService, logger)

	embedder, generator := geminiServices(ctx, stderr)
	deps.Embedder = embedder
	deps.Generator = generator

	var fetcher recall.Fetcher
	if cli.JS {
		fetcher = rod.NewFetcher(rod.WithFetchTimeout(deps.Config.FetchTimeout))
	} else {
		fetcher = recallhttp.NewFetcher(recallhttp.WithTimeout(deps.Config.FetchTimeout))
	}
	fetcher = recallslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	pipeline := ingest.NewPipeline(
		fetcher,
		trafilatura.NewExtractor(),
		goquery.NewExtractor(),
		htmltomarkdown.NewConverter(),
		embedder,
		deps.Items,
		deps.Chunks,
		deps.Config,
	)
	if err := pipeline.Warm(ctx); err != nil {
		return fmt.Errorf("failed to warm dedup filter: %w", err)
	}
	deps.Ingester = pipeline

	deps.Worker = ingest.NewWorker(deps.Queue, pipeline, deps.Config, logger)
	deps.Reindexer = ingest.NewReindexer(deps.Items, deps.Chunks, embedder, logger)
	deps.Retriever = recallslog.NewLoggingRetriever(
		retrieve.NewRetriever(deps.Items, deps.Chunks, embedder, deps.Config),
		logger,
	)
	// The default answer path is fully extractive; --llm opts into the
	// generator per invocation.
	deps.Synthesizer = answer.NewSynthesizer(nil, deps.Config)

	return kongCtx.Run(deps)
}

// geminiServices wires the Gemini client when an API key is configured.
// Without a key the embedder reports itself unavailable and the answer
// path stays fully extractive.
func geminiServices(ctx context.Context, stderr io.Writer) (recall.Embedder, recall.Generator) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return gemini.NewEmbedder(nil), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return gemini.NewEmbedder(nil), nil
	}

	return gemini.NewEmbedder(client), gemini.NewGenerator(client)
}

func defaultDBPath() string {
	if path := os.Getenv("RECALL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "recall.db"
	}
	dir := filepath.Join(home, ".recall")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "recall.db")
}
