package repository

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"news-optimizer/domain"
)

// ArticleRepository handles article persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	ExistsByKey(ctx context.Context, articleKey string) (bool, error)
	UpdateTranslation(ctx context.Context, id, translatedContent string) error
	UpdateEnrichment(ctx context.Context, id, enrichedContent string, seo *domain.SEOMetadata, optimizedAt time.Time) error
	UpdateTranslatedContent(ctx context.Context, id, translatedContent string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// SiteRepository handles the shared site configuration document.
type SiteRepository interface {
	GetSiteConfig(ctx context.Context) (*domain.SiteConfig, error)
	AddFeedSource(ctx context.Context, feedURL string) error
	RemoveFeedSource(ctx context.Context, feedURL string) error
	AddCredential(ctx context.Context, provider domain.Provider, key string) error
	RemoveCredential(ctx context.Context, provider domain.Provider, key string) error
}

// TranslationAPI is the translation provider boundary consumed by the
// translation stage. One call carries one credential.
type TranslationAPI interface {
	Translate(ctx context.Context, text, apiKey string) (string, error)
}

// GenerationAPI is the generative provider boundary consumed by the
// enrichment stage.
type GenerationAPI interface {
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

// MediaStorage is the durable object-storage boundary used for image
// re-hosting during ingestion.
type MediaStorage interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// FeedFetcher retrieves and parses one feed source.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error)
}

// PageFetcher extracts readable article HTML from a web page. Used when a
// feed item ships no body of its own.
type PageFetcher interface {
	ExtractContent(ctx context.Context, link string) (string, error)
}

// ImageFetcher downloads a single image referenced by article markup.
type ImageFetcher interface {
	Download(ctx context.Context, src string) (data []byte, contentType string, err error)
}

// DedupCache is an advisory cache of recently ingested article keys. A miss
// never implies the article is absent; callers must still consult the store.
type DedupCache interface {
	Seen(ctx context.Context, articleKey string) bool
	Mark(ctx context.Context, articleKey string)
}
