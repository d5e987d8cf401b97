package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`<h1>Title</h1><p>Some <strong>bold</strong> text.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "**bold**")
	})

	t.Run("links", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`<p>See <a href="https://example.com">the docs</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the docs](https://example.com)")
	})

	t.Run("tables", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`<table><tr><th>Key</th><th>Value</th></tr><tr><td>a</td><td>1</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Key | Value |")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		_, err := c.Convert("  ")

		require.Error(t, err)
		assert.Equal(t, recall.EINVALID, recall.ErrorCode(err))
	})
}
