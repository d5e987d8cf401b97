package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/recall"
	main "github.com/fwojciec/recall/cmd/recall"
	"github.com/fwojciec/recall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes item when --force is set", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		items := &mock.ItemService{
			FindItemByIDFn: func(_ context.Context, id string) (*recall.Item, error) {
				assert.Equal(t, "item-123", id)
				return &recall.Item{ID: "item-123", Title: "Sourdough Guide"}, nil
			},
			DeleteItemFn: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.DeleteCmd{ID: "item-123", Force: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "item-123", deletedID)
		assert.Contains(t, stdout.String(), "Deleted")
		assert.Contains(t, stdout.String(), "Sourdough Guide")
	})

	t.Run("requires --force before deleting", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemByIDFn: func(_ context.Context, id string) (*recall.Item, error) {
				return &recall.Item{ID: "item-123", Title: "Sourdough Guide"}, nil
			},
			DeleteItemFn: func(_ context.Context, _ string) error {
				t.Error("DeleteItem should not be called without --force")
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.DeleteCmd{ID: "item-123"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "--force")
	})

	t.Run("returns error when item not found", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemByIDFn: func(_ context.Context, _ string) (*recall.Item, error) {
				return nil, recall.Errorf(recall.ENOTFOUND, "item not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Items:  items,
		}

		cmd := &main.DeleteCmd{ID: "nope", Force: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, recall.ENOTFOUND, recall.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("returns error when delete fails", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemByIDFn: func(_ context.Context, _ string) (*recall.Item, error) {
				return &recall.Item{ID: "item-123", Title: "Sourdough Guide"}, nil
			},
			DeleteItemFn: func(_ context.Context, _ string) error {
				return recall.Errorf(recall.EINTERNAL, "database error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Items:  items,
		}

		cmd := &main.DeleteCmd{ID: "item-123", Force: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
