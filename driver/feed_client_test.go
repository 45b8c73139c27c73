package driver

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <item>
      <title>First headline</title>
      <link>https://example.com/articles/1</link>
      <guid>article-1</guid>
    </item>
  </channel>
</rss>`

func TestFeedClient_Fetch(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	t.Run("should send the configured user agent and parse the feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "CustomBot/2.0", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(sampleFeed))
		}))
		defer server.Close()

		client := NewFeedClient(5*time.Second, "CustomBot/2.0", log)
		feed, err := client.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "Example News", feed.Title)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, "article-1", feed.Items[0].GUID)
	})

	t.Run("should fall back to the default user agent when none is configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(sampleFeed))
		}))
		defer server.Close()

		client := NewFeedClient(5*time.Second, "", log)
		_, err := client.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
	})

	t.Run("should reject non-200 responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewFeedClient(5*time.Second, "", log)
		_, err := client.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 503")
	})
}
