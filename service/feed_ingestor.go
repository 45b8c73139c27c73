// ABOUTME: Feed ingestion stage of the article pipeline
// ABOUTME: Pulls registered feeds, dedups items, re-hosts images, stores raw articles
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"news-optimizer/config"
	"news-optimizer/domain"
	"news-optimizer/repository"
	"news-optimizer/retry"
	"news-optimizer/utils/html_parser"
)

type feedIngestor struct {
	articles repository.ArticleRepository
	sites    repository.SiteRepository
	feeds    repository.FeedFetcher
	pages    repository.PageFetcher
	images   repository.ImageFetcher
	media    repository.MediaStorage
	dedup    repository.DedupCache
	retrier  *retry.Retrier
	cfg      config.IngestConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewFeedIngestor wires the ingestion stage.
func NewFeedIngestor(
	articles repository.ArticleRepository,
	sites repository.SiteRepository,
	feeds repository.FeedFetcher,
	pages repository.PageFetcher,
	images repository.ImageFetcher,
	media repository.MediaStorage,
	dedup repository.DedupCache,
	retrier *retry.Retrier,
	cfg config.IngestConfig,
	logger *slog.Logger,
) FeedIngestor {
	return &feedIngestor{
		articles: articles,
		sites:    sites,
		feeds:    feeds,
		pages:    pages,
		images:   images,
		media:    media,
		dedup:    dedup,
		retrier:  retrier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *feedIngestor) IngestAll(ctx context.Context) (*IngestResult, error) {
	siteConfig, err := s.sites.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	if len(siteConfig.FeedSources) == 0 {
		return nil, domain.ErrNoFeedSources
	}

	result := &IngestResult{}
	for _, feedURL := range siteConfig.FeedSources {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("ingestion aborted: %w", err)
		}

		var feed *gofeed.Feed
		err := s.retrier.Do(ctx, func() error {
			var fetchErr error
			feed, fetchErr = s.feeds.Fetch(ctx, feedURL)
			return fetchErr
		})
		if err != nil {
			s.logger.Error("feed fetch failed, continuing with remaining feeds",
				"feed", feedURL, "error", err)
			result.FeedsFailed++
			continue
		}

		result.FeedsProcessed++
		s.ingestFeed(ctx, feedURL, feed, result)
	}

	s.logger.Info("ingestion run finished",
		"feeds_processed", result.FeedsProcessed,
		"feeds_failed", result.FeedsFailed,
		"items_seen", result.ItemsSeen,
		"added", result.Added,
		"duplicates", result.Duplicates,
		"failed", result.Failed)
	return result, nil
}

func (s *feedIngestor) ingestFeed(ctx context.Context, feedURL string, feed *gofeed.Feed, result *IngestResult) {
	for _, item := range feed.Items {
		result.ItemsSeen++

		added, err := s.ingestItem(ctx, feedURL, item)
		switch {
		case errors.Is(err, domain.ErrDuplicateArticle):
			result.Duplicates++
		case err != nil:
			s.logger.Error("failed to ingest item",
				"feed", feedURL, "link", item.Link, "error", err)
			result.Failed++
		case added:
			result.Added++
		default:
			result.Duplicates++
		}
	}
}

func (s *feedIngestor) ingestItem(ctx context.Context, feedURL string, item *gofeed.Item) (bool, error) {
	key := articleKey(item)
	if key == "" {
		return false, fmt.Errorf("item has neither guid nor link")
	}

	// Cache is advisory only. A hit saves the store round-trip; a miss still
	// goes through ExistsByKey.
	if s.dedup.Seen(ctx, key) {
		return false, nil
	}
	exists, err := s.articles.ExistsByKey(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		s.dedup.Mark(ctx, key)
		return false, nil
	}

	content, err := s.resolveContent(ctx, item)
	if err != nil {
		return false, err
	}

	content, mediaURLs := s.rehostImages(ctx, key, content)

	now := s.now()
	article := &domain.Article{
		ID:          uuid.NewString(),
		ArticleKey:  key,
		Title:       item.Title,
		Link:        item.Link,
		SourceFeed:  feedURL,
		RawContent:  content,
		MediaURLs:   mediaURLs,
		Status:      domain.StatusRaw,
		PublishedAt: publishedAt(item, now),
		IngestedAt:  now,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		// A concurrent run may have inserted the same key after our existence
		// check; the unique constraint makes that a duplicate, not a failure.
		if errors.Is(err, domain.ErrDuplicateArticle) {
			s.dedup.Mark(ctx, key)
		}
		return false, err
	}
	s.dedup.Mark(ctx, key)

	s.logger.Info("article ingested",
		"article_id", article.ID, "title", article.Title, "feed", feedURL)
	return true, nil
}

// resolveContent prefers the item body shipped in the feed; for headline-only
// feeds it falls back to fetching the linked page.
func (s *feedIngestor) resolveContent(ctx context.Context, item *gofeed.Item) (string, error) {
	content := strings.TrimSpace(item.Content)
	if content == "" {
		content = strings.TrimSpace(item.Description)
	}
	if content != "" {
		return content, nil
	}

	if !s.cfg.FetchEmptyBodies || item.Link == "" {
		return "", fmt.Errorf("item %q: %w", item.Title, domain.ErrArticleContentEmpty)
	}

	content, err := s.pages.ExtractContent(ctx, item.Link)
	if err != nil {
		return "", fmt.Errorf("fetching body for %q: %w", item.Title, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("item %q: %w", item.Title, domain.ErrArticleContentEmpty)
	}
	return content, nil
}

// rehostImages downloads each referenced image, uploads it to durable storage
// and rewrites the markup to point at the durable copy. A failed image keeps
// its original src; image trouble never fails the article.
func (s *feedIngestor) rehostImages(ctx context.Context, key, content string) (string, []string) {
	prefix := mediaPathPrefix(key)
	index := 0

	rewritten, durable, err := html_parser.RewriteImageSources(content, func(src string) (string, bool) {
		if index >= s.cfg.MaxImagesPerArticle {
			return "", false
		}

		data, contentType, err := s.images.Download(ctx, src)
		if err != nil {
			s.logger.Warn("image download failed, keeping original src",
				"src", src, "error", err)
			return "", false
		}

		storagePath := fmt.Sprintf("%s/%d%s", prefix, index, imageExtension(src, contentType))
		durableURL, err := s.media.Upload(ctx, storagePath, contentType, data)
		if err != nil {
			s.logger.Warn("image upload failed, keeping original src",
				"src", src, "error", err)
			return "", false
		}

		index++
		return durableURL, true
	})
	if err != nil {
		s.logger.Warn("image rewrite failed, keeping original markup", "error", err)
		return content, nil
	}
	return rewritten, durable
}

// articleKey is the stable identity of a feed item: the guid when present,
// otherwise the link.
func articleKey(item *gofeed.Item) string {
	if guid := strings.TrimSpace(item.GUID); guid != "" {
		return guid
	}
	return strings.TrimSpace(item.Link)
}

func publishedAt(item *gofeed.Item, fallback time.Time) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return fallback
}

// mediaPathPrefix derives a storage directory from the article key. Hashing
// keeps arbitrary guids and URLs out of object paths.
func mediaPathPrefix(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

func imageExtension(src, contentType string) string {
	if u, err := url.Parse(src); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}
