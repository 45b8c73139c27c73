// ABOUTME: Hand-written fakes for handler tests
// ABOUTME: Implements the repository and service interfaces the handlers consume
package handler_test

import (
	"context"
	"log/slog"
	"time"

	"news-optimizer/domain"
	"news-optimizer/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fakeArticleRepo struct {
	article     *domain.Article
	findErr     error
	updateErr   error
	deleteCount int64
	deleteErr   error
	deletedIDs  []string
	updatedID   string
	updatedText string
}

func (f *fakeArticleRepo) Create(context.Context, *domain.Article) error { return nil }

func (f *fakeArticleRepo) FindByID(_ context.Context, id string) (*domain.Article, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.article == nil || f.article.ID != id {
		return nil, domain.ErrArticleNotFound
	}
	return f.article, nil
}

func (f *fakeArticleRepo) ExistsByKey(context.Context, string) (bool, error) { return false, nil }

func (f *fakeArticleRepo) UpdateTranslation(context.Context, string, string) error { return nil }

func (f *fakeArticleRepo) UpdateEnrichment(context.Context, string, string, *domain.SEOMetadata, time.Time) error {
	return nil
}

func (f *fakeArticleRepo) UpdateTranslatedContent(_ context.Context, id, text string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedText = text
	return nil
}

func (f *fakeArticleRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedIDs = ids
	return f.deleteCount, nil
}

type fakeStage struct {
	outcome service.StageOutcome
	err     error
	calls   []string
}

func (f *fakeStage) run(_ context.Context, id string) (service.StageOutcome, error) {
	f.calls = append(f.calls, id)
	return f.outcome, f.err
}

func (f *fakeStage) Translate(ctx context.Context, id string) (service.StageOutcome, error) {
	return f.run(ctx, id)
}

func (f *fakeStage) Enrich(ctx context.Context, id string) (service.StageOutcome, error) {
	return f.run(ctx, id)
}

type fakeBatchRunner struct {
	summary   *service.BatchSummary
	err       error
	operation service.BatchOperation
	ids       []string
}

func (f *fakeBatchRunner) Run(_ context.Context, op service.BatchOperation, ids []string) (*service.BatchSummary, error) {
	f.operation = op
	f.ids = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakeSiteRepo struct {
	err          error
	addedFeeds   []string
	removedFeeds []string
	addedCreds   map[domain.Provider][]string
	removedCreds map[domain.Provider][]string
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{
		addedCreds:   make(map[domain.Provider][]string),
		removedCreds: make(map[domain.Provider][]string),
	}
}

func (f *fakeSiteRepo) GetSiteConfig(context.Context) (*domain.SiteConfig, error) {
	return &domain.SiteConfig{ID: "default"}, f.err
}

func (f *fakeSiteRepo) AddFeedSource(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.addedFeeds = append(f.addedFeeds, url)
	return nil
}

func (f *fakeSiteRepo) RemoveFeedSource(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.removedFeeds = append(f.removedFeeds, url)
	return nil
}

func (f *fakeSiteRepo) AddCredential(_ context.Context, provider domain.Provider, key string) error {
	if f.err != nil {
		return f.err
	}
	f.addedCreds[provider] = append(f.addedCreds[provider], key)
	return nil
}

func (f *fakeSiteRepo) RemoveCredential(_ context.Context, provider domain.Provider, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removedCreds[provider] = append(f.removedCreds[provider], key)
	return nil
}

type fakeIngestor struct {
	result *service.IngestResult
	err    error
	calls  int
}

func (f *fakeIngestor) IngestAll(context.Context) (*service.IngestResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }
