package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/ingest"
	"github.com/fwojciec/recall/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config recall.Config

	DB          *sqlite.DB
	Items       recall.ItemService
	Chunks      recall.ChunkService
	Queue       recall.QueueService
	Embedder    recall.Embedder
	Generator   recall.Generator
	Ingester    recall.Ingester
	Worker      *ingest.Worker
	Reindexer   *ingest.Reindexer
	Retriever   recall.Retriever
	Synthesizer recall.Synthesizer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`
	JS      bool `help:"Render pages with headless Chrome instead of plain HTTP"`

	Save    SaveCmd    `cmd:"" help:"Save a URL into the knowledge base"`
	Paste   PasteCmd   `cmd:"" help:"Save pasted text into the knowledge base"`
	Ask     AskCmd     `cmd:"" help:"Ask a question against saved content"`
	List    ListCmd    `cmd:"" help:"List saved items"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an item and its chunks"`
	Export  ExportCmd  `cmd:"" help:"Export saved items as markdown files"`
	Queue   QueueCmd   `cmd:"" help:"Inspect and manage the ingestion queue"`
	Reindex ReindexCmd `cmd:"" help:"Re-embed all stored chunks with the current model"`
	Worker  WorkerCmd  `cmd:"" help:"Run the ingestion worker until interrupted"`
}

// SaveCmd is the "save" subcommand.
type SaveCmd struct {
	URL    string `arg:"" help:"URL to save"`
	From   string `default:"cli" help:"Label recording where the save came from"`
	NoWait bool   `help:"Enqueue only; let a running worker pick the job up"`
}

// PasteCmd is the "paste" subcommand.
type PasteCmd struct {
	Text string `arg:"" optional:"" help:"Text to save (reads stdin when omitted)"`
	From string `default:"cli" help:"Label recording where the save came from"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask"`
	TopK     int    `short:"k" default:"0" help:"Number of chunks to retrieve (0 uses the default)"`
	LLM      bool   `help:"Rewrite the answer with the configured language model"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Limit  int    `default:"50" help:"Maximum number of items to show"`
	Offset int    `default:"0" help:"Number of items to skip"`
	From   string `help:"Only items saved from this label"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Item ID"`
	Force bool   `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir  string `arg:"" optional:"" default:"recall-export" help:"Output directory"`
	From string `help:"Only items saved from this label"`
}

// QueueCmd groups the queue management subcommands.
type QueueCmd struct {
	Status QueueStatusCmd `cmd:"" default:"1" help:"Show queue counts"`
	Revive QueueReviveCmd `cmd:"" help:"Reset dead-letter jobs to pending"`
	Retry  QueueRetryCmd  `cmd:"" help:"Make all pending jobs eligible immediately"`
}

// QueueStatusCmd is the "queue status" subcommand.
type QueueStatusCmd struct{}

// QueueReviveCmd is the "queue revive" subcommand.
type QueueReviveCmd struct{}

// QueueRetryCmd is the "queue retry" subcommand.
type QueueRetryCmd struct{}

// ReindexCmd is the "reindex" subcommand.
type ReindexCmd struct{}

// WorkerCmd is the "worker" subcommand.
type WorkerCmd struct{}
