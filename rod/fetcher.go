// Package rod provides a Chrome-based implementation of recall.Fetcher
// for pages that require JavaScript rendering.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/recall"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements recall.Fetcher at compile time.
var _ recall.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. The browser launches lazily on first Fetch, so a save that
// never needs JavaScript rendering never pays the Chrome startup cost.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout time.Duration

	mu      sync.Mutex
	manager *BrowserManager
	closed  bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher. No browser is launched until the first
// Fetch call.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	manager, err := f.ensureManager()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times;
// Fetch after Close returns EINTERNAL.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.manager == nil {
		return nil
	}
	manager := f.manager
	f.manager = nil
	return manager.Close()
}

// ensureManager lazily launches the browser manager.
func (f *Fetcher) ensureManager() (*BrowserManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, recall.Errorf(recall.EINTERNAL, "fetcher is closed")
	}
	if f.manager != nil {
		return f.manager, nil
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return manager, nil
}
