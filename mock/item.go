package mock

import (
	"context"

	"github.com/fwojciec/recall"
)

var _ recall.ItemService = (*ItemService)(nil)

// ItemService is a mock implementation of recall.ItemService.
type ItemService struct {
	CreateItemWithChunksFn  func(ctx context.Context, item *recall.Item, chunks []*recall.Chunk) error
	FindItemByIDFn          func(ctx context.Context, id string) (*recall.Item, error)
	FindItemByContentHashFn func(ctx context.Context, hash string) (*recall.Item, error)
	FindItemsFn             func(ctx context.Context, filter recall.ItemFilter) ([]*recall.Item, error)
	DeleteItemFn            func(ctx context.Context, id string) error
}

func (s *ItemService) CreateItemWithChunks(ctx context.Context, item *recall.Item, chunks []*recall.Chunk) error {
	return s.CreateItemWithChunksFn(ctx, item, chunks)
}

func (s *ItemService) FindItemByID(ctx context.Context, id string) (*recall.Item, error) {
	return s.FindItemByIDFn(ctx, id)
}

func (s *ItemService) FindItemByContentHash(ctx context.Context, hash string) (*recall.Item, error) {
	return s.FindItemByContentHashFn(ctx, hash)
}

func (s *ItemService) FindItems(ctx context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
	return s.FindItemsFn(ctx, filter)
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	return s.DeleteItemFn(ctx, id)
}
