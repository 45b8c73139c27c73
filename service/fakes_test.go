// ABOUTME: Hand-written fakes shared by service layer tests
// ABOUTME: Each fake records calls and returns scripted results
package service

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"news-optimizer/domain"
)

type fakeArticleRepo struct {
	articles map[string]*domain.Article
	existing map[string]bool

	created      []*domain.Article
	translations map[string]string
	enrichments  map[string]string
	seo          map[string]*domain.SEOMetadata
	deleted      []string
	deleteCalls  int
	deleteReturn int64
	createErr    error
	existsErr    error
	updateErr    error
	deleteErr    error
}

func newFakeArticleRepo(articles ...*domain.Article) *fakeArticleRepo {
	repo := &fakeArticleRepo{
		articles:     make(map[string]*domain.Article),
		existing:     make(map[string]bool),
		translations: make(map[string]string),
		enrichments:  make(map[string]string),
		seo:          make(map[string]*domain.SEOMetadata),
	}
	for _, a := range articles {
		repo.articles[a.ID] = a
		repo.existing[a.ArticleKey] = true
	}
	return repo
}

func (f *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.existing[article.ArticleKey] {
		return domain.ErrDuplicateArticle
	}
	f.created = append(f.created, article)
	f.articles[article.ID] = article
	f.existing[article.ArticleKey] = true
	return nil
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	copied := *article
	return &copied, nil
}

func (f *fakeArticleRepo) ExistsByKey(_ context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[key], nil
}

func (f *fakeArticleRepo) UpdateTranslation(_ context.Context, id, translated string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	article, ok := f.articles[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	article.TranslatedContent = translated
	article.Status = domain.StatusTranslated
	f.translations[id] = translated
	return nil
}

func (f *fakeArticleRepo) UpdateEnrichment(_ context.Context, id, enriched string, seo *domain.SEOMetadata, optimizedAt time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	article, ok := f.articles[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	article.EnrichedContent = enriched
	article.SEOMetadata = seo
	article.Status = domain.StatusEnriched
	article.OptimizedAt = &optimizedAt
	f.enrichments[id] = enriched
	f.seo[id] = seo
	return nil
}

func (f *fakeArticleRepo) UpdateTranslatedContent(_ context.Context, id, translated string) error {
	article, ok := f.articles[id]
	if !ok {
		return domain.ErrArticleNotFound
	}
	article.TranslatedContent = translated
	return nil
}

func (f *fakeArticleRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	if f.deleteReturn > 0 {
		return f.deleteReturn, nil
	}
	var count int64
	for _, id := range ids {
		if _, ok := f.articles[id]; ok {
			delete(f.articles, id)
			count++
		}
	}
	return count, nil
}

type fakeSiteRepo struct {
	cfg *domain.SiteConfig
	err error
}

func (f *fakeSiteRepo) GetSiteConfig(context.Context) (*domain.SiteConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeSiteRepo) AddFeedSource(context.Context, string) error    { return nil }
func (f *fakeSiteRepo) RemoveFeedSource(context.Context, string) error { return nil }
func (f *fakeSiteRepo) AddCredential(context.Context, domain.Provider, string) error {
	return nil
}
func (f *fakeSiteRepo) RemoveCredential(context.Context, domain.Provider, string) error {
	return nil
}

type fakeTranslationAPI struct {
	result  string
	err     error
	calls   int
	lastKey string
}

func (f *fakeTranslationAPI) Translate(_ context.Context, _ string, apiKey string) (string, error) {
	f.calls++
	f.lastKey = apiKey
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeGenerationAPI struct {
	// responses are returned in order, one per call; the last repeats.
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeGenerationAPI) Generate(_ context.Context, prompt, _ string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

type fakeFeedFetcher struct {
	feeds map[string]*gofeed.Feed
	errs  map[string]error
	calls map[string]int
}

func newFakeFeedFetcher() *fakeFeedFetcher {
	return &fakeFeedFetcher{
		feeds: make(map[string]*gofeed.Feed),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFeedFetcher) Fetch(_ context.Context, feedURL string) (*gofeed.Feed, error) {
	f.calls[feedURL]++
	if err, ok := f.errs[feedURL]; ok {
		return nil, err
	}
	return f.feeds[feedURL], nil
}

type fakePageFetcher struct {
	content string
	err     error
	calls   int
}

func (f *fakePageFetcher) ExtractContent(context.Context, string) (string, error) {
	f.calls++
	return f.content, f.err
}

type fakeImageFetcher struct {
	data        []byte
	contentType string
	err         error
	calls       int
}

func (f *fakeImageFetcher) Download(context.Context, string) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.contentType, nil
}

type fakeMediaStorage struct {
	urls  map[string]string
	err   error
	paths []string
}

func (f *fakeMediaStorage) Upload(_ context.Context, path, _ string, _ []byte) (string, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return "", f.err
	}
	if url, ok := f.urls[path]; ok {
		return url, nil
	}
	return "https://cdn.example.com/" + path, nil
}

type fakeDedupCache struct {
	seen   map[string]bool
	marked []string
}

func newFakeDedupCache() *fakeDedupCache {
	return &fakeDedupCache{seen: make(map[string]bool)}
}

func (f *fakeDedupCache) Seen(_ context.Context, key string) bool {
	return f.seen[key]
}

func (f *fakeDedupCache) Mark(_ context.Context, key string) {
	f.seen[key] = true
	f.marked = append(f.marked, key)
}
