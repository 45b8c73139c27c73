package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-optimizer/config"
	"news-optimizer/domain"
	"news-optimizer/repository"
	"news-optimizer/retry"
)

func testRetrier() *retry.Retrier {
	return retry.NewRetrier(retry.Config{
		MaxAttempts:   2,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0,
	}, func(error) bool { return true }, testLogger())
}

func testIngestConfig() config.IngestConfig {
	return config.IngestConfig{
		SiteID:              "default",
		MaxImagesPerArticle: 10,
		MaxImageBytes:       1 << 20,
		MediaTimeout:        time.Second,
		FetchEmptyBodies:    true,
	}
}

type ingestorFixture struct {
	repo   *fakeArticleRepo
	sites  *fakeSiteRepo
	feeds  *fakeFeedFetcher
	pages  *fakePageFetcher
	images *fakeImageFetcher
	media  *fakeMediaStorage
	dedup  *fakeDedupCache
	cfg    config.IngestConfig
}

func newIngestorFixture(feedURLs ...string) *ingestorFixture {
	return &ingestorFixture{
		repo:   newFakeArticleRepo(),
		sites:  &fakeSiteRepo{cfg: &domain.SiteConfig{ID: "default", FeedSources: feedURLs}},
		feeds:  newFakeFeedFetcher(),
		pages:  &fakePageFetcher{},
		images: &fakeImageFetcher{},
		media:  &fakeMediaStorage{},
		dedup:  newFakeDedupCache(),
		cfg:    testIngestConfig(),
	}
}

func (f *ingestorFixture) build() FeedIngestor {
	return NewFeedIngestor(
		f.repo, f.sites, f.feeds, f.pages, f.images, f.media, f.dedup,
		testRetrier(), f.cfg, testLogger(),
	)
}

func feedItem(guid, link, content string) *gofeed.Item {
	return &gofeed.Item{
		GUID:    guid,
		Link:    link,
		Title:   "Headline for " + link,
		Content: content,
	}
}

func TestFeedIngestor_IngestAll(t *testing.T) {
	t.Run("should store new items as raw articles", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1", "<p>Body one</p>"),
			feedItem("guid-2", "https://news.example.com/2", "<p>Body two</p>"),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.FeedsProcessed)
		assert.Equal(t, 2, result.Added)
		require.Len(t, f.repo.created, 2)

		article := f.repo.created[0]
		assert.Equal(t, "guid-1", article.ArticleKey)
		assert.Equal(t, domain.StatusRaw, article.Status)
		assert.Equal(t, "https://news.example.com/rss", article.SourceFeed)
		assert.NotEmpty(t, article.ID)
		assert.False(t, article.IngestedAt.IsZero())
	})

	t.Run("should use the link as identity when the guid is missing", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("", "https://news.example.com/only-link", "<p>Body</p>"),
		}}

		_, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		require.Len(t, f.repo.created, 1)
		assert.Equal(t, "https://news.example.com/only-link", f.repo.created[0].ArticleKey)
	})

	t.Run("should count already-stored items as duplicates", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.repo.existing["guid-1"] = true
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1", "<p>Seen before</p>"),
			feedItem("guid-2", "https://news.example.com/2", "<p>New</p>"),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Duplicates)
		assert.Contains(t, f.dedup.marked, "guid-1", "store hit should warm the cache")
	})

	t.Run("should trust the dedup cache without hitting the store", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.dedup.seen["guid-1"] = true
		f.repo.existsErr = errors.New("store should not be consulted")
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1", "<p>Cached</p>"),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Duplicates)
		assert.Empty(t, f.repo.created)
	})

	t.Run("should fetch the linked page when the item has no body", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.pages.content = "<p>Fetched full body</p>"
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1", ""),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, f.pages.calls)
		assert.Equal(t, "<p>Fetched full body</p>", f.repo.created[0].RawContent)
	})

	t.Run("should fail the item when body fetching is disabled and the feed is empty", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.cfg.FetchEmptyBodies = false
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1", ""),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, f.pages.calls)
	})

	t.Run("should re-host images onto durable storage", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.images.data = []byte{0xFF, 0xD8}
		f.images.contentType = "image/jpeg"
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1",
				`<p>Text</p><img src="https://origin.example.com/photo.jpg">`),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)

		article := f.repo.created[0]
		assert.Contains(t, article.RawContent, "https://cdn.example.com/")
		assert.NotContains(t, article.RawContent, "origin.example.com")
		require.Len(t, article.MediaURLs, 1)
		require.Len(t, f.media.paths, 1)
		assert.Contains(t, f.media.paths[0], ".jpg")
	})

	t.Run("should keep the original src when an image cannot be re-hosted", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.images.err = errors.New("origin unreachable")
		f.feeds.feeds["https://news.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://news.example.com/1",
				`<img src="https://origin.example.com/photo.jpg">`),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added, "image trouble must not fail the article")
		assert.Contains(t, f.repo.created[0].RawContent, "origin.example.com/photo.jpg")
		assert.Empty(t, f.repo.created[0].MediaURLs)
	})

	t.Run("should continue with remaining feeds when one fails", func(t *testing.T) {
		f := newIngestorFixture("https://down.example.com/rss", "https://up.example.com/rss")
		f.feeds.errs["https://down.example.com/rss"] = errors.New("connection refused")
		f.feeds.feeds["https://up.example.com/rss"] = &gofeed.Feed{Items: []*gofeed.Item{
			feedItem("guid-1", "https://up.example.com/1", "<p>Body</p>"),
		}}

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, result.FeedsFailed)
		assert.Equal(t, 1, result.FeedsProcessed)
		assert.Equal(t, 1, result.Added)
	})

	t.Run("should retry a flaky feed fetch", func(t *testing.T) {
		f := newIngestorFixture("https://down.example.com/rss")
		f.feeds.errs["https://down.example.com/rss"] = errors.New("connection refused")

		result, err := f.build().IngestAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, f.feeds.calls["https://down.example.com/rss"])
		assert.Equal(t, 1, result.FeedsFailed)
	})

	t.Run("should fail fast when no feed sources are registered", func(t *testing.T) {
		f := newIngestorFixture()

		_, err := f.build().IngestAll(context.Background())

		assert.ErrorIs(t, err, domain.ErrNoFeedSources)
	})

	t.Run("should fail fast when the site config is missing", func(t *testing.T) {
		f := newIngestorFixture("https://news.example.com/rss")
		f.sites.err = domain.ErrSiteConfigMissing

		_, err := f.build().IngestAll(context.Background())

		assert.ErrorIs(t, err, domain.ErrSiteConfigMissing)
	})
}

var _ repository.FeedFetcher = (*fakeFeedFetcher)(nil)
var _ repository.DedupCache = (*fakeDedupCache)(nil)
