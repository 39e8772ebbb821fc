package gcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/provider"
)

const testFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Cloud SQL release notes</title>
  <entry>
    <title>March 12, 2024</title>
    <content type="html">&lt;ul&gt;&lt;li&gt;Cloud SQL for MySQL 8.0 is upgraded to 8.0.35.&lt;/li&gt;&lt;/ul&gt;</content>
  </entry>
  <entry>
    <title>February 27, 2024</title>
    <content type="html">&lt;ul&gt;&lt;li&gt;Cloud SQL for PostgreSQL 15 is upgraded to 15.4.&lt;/li&gt;&lt;li&gt;Maintenance window changes.&lt;/li&gt;&lt;/ul&gt;</content>
  </entry>
</feed>`

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}
}

func feedServer(t *testing.T, requests *atomic.Int64, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func serveFeed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/atom+xml")
	_, _ = w.Write([]byte(testFeed))
}

func TestEntriesFetchesOnce(t *testing.T) {
	var requests atomic.Int64
	srv := feedServer(t, &requests, serveFeed)

	rn := NewReleaseNotes(srv.URL, fastPolicy(1))

	entries, err := rn.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "Cloud SQL for MySQL 8.0 is upgraded to 8.0.35.")
	assert.Contains(t, entries[1], "Cloud SQL for PostgreSQL 15 is upgraded to 15.4.")

	again, err := rn.Entries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, again)
	assert.Equal(t, int64(1), requests.Load(), "second call must hit the cache")
}

func TestEntriesMalformedFeed(t *testing.T) {
	var requests atomic.Int64
	srv := feedServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not xml"))
	})

	rn := NewReleaseNotes(srv.URL, fastPolicy(3))

	_, err := rn.Entries(context.Background())
	assert.ErrorIs(t, err, provider.ErrFeedParse)
	assert.Equal(t, int64(1), requests.Load(), "parse failures must not retry the fetch")
}

func TestEntriesRetriesServerErrors(t *testing.T) {
	var requests atomic.Int64
	srv := feedServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		if requests.Load() < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		serveFeed(w, r)
	})

	rn := NewReleaseNotes(srv.URL, fastPolicy(3))

	entries, err := rn.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(3), requests.Load())
}

func TestEntriesFailsFastOnClientError(t *testing.T) {
	var requests atomic.Int64
	srv := feedServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rn := NewReleaseNotes(srv.URL, fastPolicy(3))

	_, err := rn.Entries(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(1), requests.Load(), "4xx responses are permanent")
}

func TestEntriesRepopulatesAfterFailure(t *testing.T) {
	var requests atomic.Int64
	srv := feedServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		if requests.Load() == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		serveFeed(w, r)
	})

	rn := NewReleaseNotes(srv.URL, fastPolicy(1))

	_, err := rn.Entries(context.Background())
	require.Error(t, err)

	entries, err := rn.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
