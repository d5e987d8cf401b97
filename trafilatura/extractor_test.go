package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Blog</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the saved page, long enough to be kept by the extractor heuristics.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "main content")
		assert.NotContains(t, result.ContentHTML, "Navigation here")
	})

	t.Run("extracts canonical url from metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Post</title>
<link rel="canonical" href="https://example.com/posts/hello">
</head>
<body>
<article>
<p>Body text of the post, with enough words to survive content extraction.</p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/posts/hello", result.CanonicalURL)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, recall.EINVALID, recall.ErrorCode(err))
	})
}
