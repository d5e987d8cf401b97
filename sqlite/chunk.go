package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/recall"
)

// Compile-time interface verification.
var _ recall.ChunkService = (*ChunkService)(nil)

// ChunkService implements recall.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

const chunkColumns = "id, item_id, position, content, embedding, embedding_model, embedding_dim"

// FindChunksByItem retrieves an item's chunks ordered by position.
func (s *ChunkService) FindChunksByItem(ctx context.Context, itemID string) ([]*recall.Chunk, error) {
	return s.query(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE item_id = ? ORDER BY position ASC", itemID)
}

// AllChunks retrieves every stored chunk ordered by ID.
func (s *ChunkService) AllChunks(ctx context.Context) ([]*recall.Chunk, error) {
	return s.query(ctx, "SELECT "+chunkColumns+" FROM chunks ORDER BY id ASC")
}

// CountChunks returns the total number of stored chunks.
func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

// UpdateChunkEmbedding overwrites a chunk's embedding vector, model id and
// dimension. Chunk text is never touched; the FTS index stays valid.
func (s *ChunkService) UpdateChunkEmbedding(ctx context.Context, chunkID int64, embedding []float32, modelID string, dim int) error {
	if len(embedding) != dim {
		return recall.Errorf(recall.EINVALID, "embedding dimension mismatch: declared %d, got %d", dim, len(embedding))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE chunks SET embedding = ?, embedding_model = ?, embedding_dim = ? WHERE id = ?
	`, encodeVector(embedding), modelID, dim, chunkID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return recall.Errorf(recall.ENOTFOUND, "chunk %d not found", chunkID)
	}

	return nil
}

// SearchLexical runs a ranked full-text match against the lexical index.
// Results are best-first (ascending bm25, which FTS5 reports as negative).
func (s *ChunkService) SearchLexical(ctx context.Context, query string, limit int) ([]recall.LexicalMatch, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rowid, rank FROM chunks_fts WHERE chunks_fts MATCH ? ORDER BY rank LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []recall.LexicalMatch
	for rows.Next() {
		var m recall.LexicalMatch
		if err := rows.Scan(&m.ChunkID, &m.Rank); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

const (
	metaEmbeddingModel = "embedding_model"
	metaEmbeddingDim   = "embedding_dim"
)

// EmbeddingState returns the recorded embedding model and dimension.
func (s *ChunkService) EmbeddingState(ctx context.Context) (*recall.EmbeddingState, error) {
	var state recall.EmbeddingState

	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", metaEmbeddingModel).Scan(&state.ModelID)
	if err == sql.ErrNoRows {
		return nil, recall.Errorf(recall.ENOTFOUND, "no embedding state recorded")
	}
	if err != nil {
		return nil, err
	}

	var dim string
	err = s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", metaEmbeddingDim).Scan(&dim)
	if err == sql.ErrNoRows {
		return nil, recall.Errorf(recall.ENOTFOUND, "no embedding state recorded")
	}
	if err != nil {
		return nil, err
	}
	if state.Dimension, err = parseInt(dim, "embedding_dim"); err != nil {
		return nil, err
	}

	return &state, nil
}

// SetEmbeddingState records the active embedding model and dimension.
func (s *ChunkService) SetEmbeddingState(ctx context.Context, state recall.EmbeddingState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		metaEmbeddingModel: state.ModelID,
		metaEmbeddingDim:   formatInt(state.Dimension),
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *ChunkService) query(ctx context.Context, query string, args ...any) ([]*recall.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*recall.Chunk
	for rows.Next() {
		var c recall.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Position, &c.Content, &blob, &c.EmbeddingModel, &c.EmbeddingDim); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeVector(blob); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}

	return chunks, rows.Err()
}

// buildMatchQuery tokenizes a user query for FTS5: whitespace split,
// quoting and FTS operator characters stripped, empties dropped. Each token
// is double-quoted so nothing is interpreted as FTS syntax, then joined
// with OR for broad matching.
func buildMatchQuery(query string) string {
	replacer := strings.NewReplacer(
		"\"", "", "'", "", "`", "",
		"*", "", "(", "", ")", "",
		"+", "", "^", "", ":", "",
		"?", "", "[", "", "]", "",
		"{", "", "}", "", "!", "",
		".", " ", ",", " ", ";", " ",
	)
	cleaned := replacer.Replace(query)

	var parts []string
	for _, w := range strings.Fields(cleaned) {
		parts = append(parts, "\""+w+"\"")
	}
	return strings.Join(parts, " OR ")
}
