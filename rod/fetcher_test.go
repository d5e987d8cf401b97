//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher()
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "JavaScript Rendered")
	assert.NotContains(t, html, "Loading...")
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
}

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher()

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
}

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher()
	require.NoError(t, fetcher.Close())

	_, err := fetcher.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Equal(t, recall.EINTERNAL, recall.ErrorCode(err))
}

func TestBrowserManager_RecyclesAfterMaxPages(t *testing.T) {
	t.Parallel()

	bm, err := rod.NewBrowserManager(rod.WithMaxPages(2))
	require.NoError(t, err)
	defer bm.Close()

	firstPID := bm.LauncherPID()
	require.NotZero(t, firstPID)

	bm.IncrementPageCount()
	bm.IncrementPageCount()
	_ = bm.Browser()

	assert.NotEqual(t, firstPID, bm.LauncherPID())
}
