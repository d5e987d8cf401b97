package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/recall"
	main "github.com/fwojciec/recall/cmd/recall"
	"github.com/fwojciec/recall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes items as markdown files", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemsFn: func(_ context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
				if filter.Offset > 0 {
					return nil, nil
				}
				return []*recall.Item{
					{
						ID:           "item-1",
						Title:        "Sourdough Guide",
						Content:      "Feed the starter daily.",
						CanonicalURL: "https://example.com/sourdough",
						SavedAt:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		dir := filepath.Join(t.TempDir(), "export")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.ExportCmd{Dir: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 1 item(s)")

		content, err := os.ReadFile(filepath.Join(dir, "sourdough-guide-item-1.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "Feed the starter daily.")
	})

	t.Run("reports an empty store without creating the directory", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemsFn: func(_ context.Context, _ recall.ItemFilter) ([]*recall.Item, error) {
				return nil, nil
			},
		}

		dir := filepath.Join(t.TempDir(), "export")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.ExportCmd{Dir: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No items to export.")
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("filters by saved-from label", func(t *testing.T) {
		t.Parallel()

		var gotFrom *string
		items := &mock.ItemService{
			FindItemsFn: func(_ context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
				gotFrom = filter.SavedFrom
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.ExportCmd{Dir: filepath.Join(t.TempDir(), "export"), From: "cli"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFrom)
		assert.Equal(t, "cli", *gotFrom)
	})

	t.Run("leaves a previous export intact on failure", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		dir := filepath.Join(baseDir, "export")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.md"), []byte("keep"), 0644))

		items := &mock.ItemService{
			FindItemsFn: func(_ context.Context, _ recall.ItemFilter) ([]*recall.Item, error) {
				return nil, recall.Errorf(recall.EINTERNAL, "database error")
			},
		}

		deps := &main.Dependencies{
			Ctx:    testContext(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Items:  items,
		}

		cmd := &main.ExportCmd{Dir: dir}
		err := cmd.Run(deps)

		require.Error(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "keep.md"))
		require.NoError(t, statErr)
	})
}
