package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// HashContent computes the xxHash of content as a fixed-width hex string.
// It keys content deduplication: two saves with the same extracted text
// resolve to one item.
func HashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// Item represents a saved piece of knowledge: an extracted web page or a
// block of pasted text, together with its provenance.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	Content      string    `json:"content"`
	ContentHash  string    `json:"contentHash"`
	SourceLabel  string    `json:"sourceLabel"`
	Truncated    bool      `json:"truncated,omitempty"`
	CanonicalURL string    `json:"canonicalUrl,omitempty"`
	SavedFrom    string    `json:"savedFrom"`
	CreatedAt    time.Time `json:"createdAt"`
	SavedAt      time.Time `json:"savedAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *Item) Validate() error {
	if i.Content == "" {
		return Errorf(EINVALID, "item content required")
	}
	if i.SourceLabel == "" {
		return Errorf(EINVALID, "item source label required")
	}
	return nil
}

// ItemService represents a service for managing knowledge items.
type ItemService interface {
	// CreateItemWithChunks creates an item and all of its chunks in a
	// single transaction. Chunk positions follow slice order. Any chunk
	// failure rolls back the entire item; no partial item is ever visible.
	CreateItemWithChunks(ctx context.Context, item *Item, chunks []*Chunk) error

	// FindItemByID retrieves an item by ID.
	// Returns ENOTFOUND if the item does not exist.
	FindItemByID(ctx context.Context, id string) (*Item, error)

	// FindItemByContentHash retrieves an item by its content hash.
	// Used as a dedup lookup prior to insert; hash uniqueness is advisory,
	// not enforced by a constraint. Returns ENOTFOUND if no item matches.
	FindItemByContentHash(ctx context.Context, hash string) (*Item, error)

	// FindItems retrieves items matching the filter.
	FindItems(ctx context.Context, filter ItemFilter) ([]*Item, error)

	// DeleteItem permanently removes an item and all its chunks.
	// Returns ENOTFOUND if the item does not exist.
	DeleteItem(ctx context.Context, id string) error
}

// SortOrder represents the sort order for item queries.
type SortOrder string

// SortOrder constants for ItemFilter.
const (
	SortBySavedAt SortOrder = "saved_at"
	SortByTitle   SortOrder = "title"
)

// ItemFilter represents a filter for FindItems.
type ItemFilter struct {
	ID           *string `json:"id"`
	CanonicalURL *string `json:"canonicalUrl"`
	SavedFrom    *string `json:"savedFrom"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}
