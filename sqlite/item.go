package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/recall"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ recall.ItemService = (*ItemService)(nil)

// ItemService implements recall.ItemService using SQLite.
type ItemService struct {
	db *DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *DB) *ItemService {
	return &ItemService{db: db}
}

// CreateItemWithChunks creates an item and all of its chunks in a single
// transaction. Any chunk failure rolls back the entire item.
func (s *ItemService) CreateItemWithChunks(ctx context.Context, item *recall.Item, chunks []*recall.Chunk) error {
	if err := item.Validate(); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	item.ID = uuid.New().String()
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.SavedAt.IsZero() {
		item.SavedAt = now
	}
	if item.ContentHash == "" {
		item.ContentHash = recall.HashContent(item.Content)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO items (id, title, source_url, content, content_hash, source_label, truncated, canonical_url, saved_from, created_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.SourceURL, item.Content, item.ContentHash, item.SourceLabel,
		boolToInt(item.Truncated), item.CanonicalURL, item.SavedFrom,
		item.CreatedAt.Format(time.RFC3339), item.SavedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for i, c := range chunks {
		c.ItemID = item.ID
		c.Position = i

		res, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (item_id, position, content, embedding, embedding_model, embedding_dim)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ItemID, c.Position, c.Content, encodeVector(c.Embedding), c.EmbeddingModel, c.EmbeddingDim)
		if err != nil {
			return err
		}
		c.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindItemByID retrieves an item by ID.
func (s *ItemService) FindItemByID(ctx context.Context, id string) (*recall.Item, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindItemByContentHash retrieves an item by its content hash. Hash
// uniqueness is advisory; if multiple items share a hash the earliest
// saved wins.
func (s *ItemService) FindItemByContentHash(ctx context.Context, hash string) (*recall.Item, error) {
	return s.findOne(ctx, "content_hash = ?", hash)
}

const itemColumns = "id, title, source_url, content, content_hash, source_label, truncated, canonical_url, saved_from, created_at, saved_at"

func (s *ItemService) findOne(ctx context.Context, where string, arg any) (*recall.Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE "+where+" ORDER BY saved_at ASC LIMIT 1", arg)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, recall.Errorf(recall.ENOTFOUND, "item not found")
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindItems retrieves items matching the filter.
func (s *ItemService) FindItems(ctx context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + itemColumns + " FROM items WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.CanonicalURL != nil {
		query.WriteString(" AND canonical_url = ?")
		args = append(args, *filter.CanonicalURL)
	}
	if filter.SavedFrom != nil {
		query.WriteString(" AND saved_from = ?")
		args = append(args, *filter.SavedFrom)
	}

	switch filter.SortBy {
	case recall.SortByTitle:
		query.WriteString(" ORDER BY title ASC")
	default:
		query.WriteString(" ORDER BY saved_at DESC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*recall.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DeleteItem permanently removes an item and all its chunks in a single
// transaction. Chunks are deleted explicitly rather than via the FK cascade
// so their FTS delete triggers always fire.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE item_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return recall.Errorf(recall.ENOTFOUND, "item not found")
	}

	return tx.Commit()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*recall.Item, error) {
	var item recall.Item
	var truncated int
	var createdAt, savedAt string

	if err := row.Scan(&item.ID, &item.Title, &item.SourceURL, &item.Content, &item.ContentHash,
		&item.SourceLabel, &truncated, &item.CanonicalURL, &item.SavedFrom, &createdAt, &savedAt); err != nil {
		return nil, err
	}

	item.Truncated = truncated != 0

	var err error
	if item.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if item.SavedAt, err = parseRFC3339(savedAt, "saved_at"); err != nil {
		return nil, err
	}

	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
