package gcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/provider"
)

// ReleaseNotes caches the Cloud SQL release-notes feed for the process
// lifetime. The feed is fetched and parsed once; entries are the text of
// each Atom entry's content element, in feed order.
type ReleaseNotes struct {
	url        string
	policy     retry.Policy
	httpClient *http.Client

	mu      sync.Mutex
	entries []string
	fetched bool
}

// NewReleaseNotes creates a cache over the given Atom feed URL.
func NewReleaseNotes(url string, policy retry.Policy) *ReleaseNotes {
	return &ReleaseNotes{
		url:        url,
		policy:     policy,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Entries returns the cached release-note entries, fetching and parsing
// the feed on first call. Transport failures are retried; a malformed feed
// is permanent. A failed population leaves the cache empty for the next
// caller to retry.
func (r *ReleaseNotes) Entries(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fetched {
		return r.entries, nil
	}

	var body []byte
	err := retry.Do(ctx, r.policy, func() error {
		var fetchErr error
		body, fetchErr = r.fetch(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch release notes: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedParse, err)
	}

	entries := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, item.Content)
	}

	log.Debug("release notes feed cached", "url", r.url, "entries", len(entries))

	r.entries = entries
	r.fetched = true
	return r.entries, nil
}

func (r *ReleaseNotes) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, r.url)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, retry.Transient(err)
		}
		return nil, err
	}

	return io.ReadAll(resp.Body)
}
