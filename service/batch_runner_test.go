package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-optimizer/domain"
)

func TestBatchRunner_Run(t *testing.T) {
	sites := &fakeSiteRepo{cfg: &domain.SiteConfig{
		ID:              "default",
		TranslationKeys: []string{"tk-1"},
		GenerationKeys:  []string{"gk-1"},
	}}

	newRunner := func(repo *fakeArticleRepo, translation *fakeTranslationAPI, generation *fakeGenerationAPI) BatchRunner {
		return NewBatchRunner(
			repo,
			NewTranslationStage(repo, sites, translation, testLogger()),
			NewEnrichmentStage(repo, sites, generation, testLogger()),
			testLogger(),
		)
	}

	t.Run("should translate every raw article and skip the rest", func(t *testing.T) {
		translated := translatedArticle("a2")
		repo := newFakeArticleRepo(rawArticle("a1"), translated, rawArticle("a3"))
		runner := newRunner(repo, &fakeTranslationAPI{result: "çeviri"}, &fakeGenerationAPI{})

		summary, err := runner.Run(context.Background(), BatchTranslate, []string{"a1", "a2", "a3"})

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Requested)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 1, summary.Skipped)
		assert.Zero(t, summary.Failed)
	})

	t.Run("should keep going when one item fails", func(t *testing.T) {
		repo := newFakeArticleRepo(rawArticle("a1"), rawArticle("a3"))
		runner := newRunner(repo, &fakeTranslationAPI{result: "çeviri"}, &fakeGenerationAPI{})

		summary, err := runner.Run(context.Background(), BatchTranslate, []string{"a1", "missing", "a3"})

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("should enrich translated articles", func(t *testing.T) {
		repo := newFakeArticleRepo(translatedArticle("a1"))
		runner := newRunner(repo, &fakeTranslationAPI{}, &fakeGenerationAPI{
			responses: []string{validEnrichmentResponse},
		})

		summary, err := runner.Run(context.Background(), BatchEnrich, []string{"a1"})

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, domain.StatusEnriched, repo.articles["a1"].Status)
	})

	t.Run("should delete all requested articles in one statement", func(t *testing.T) {
		repo := newFakeArticleRepo(rawArticle("a1"), rawArticle("a2"))
		runner := newRunner(repo, &fakeTranslationAPI{}, &fakeGenerationAPI{})

		summary, err := runner.Run(context.Background(), BatchDelete, []string{"a1", "a2", "gone"})

		require.NoError(t, err)
		assert.Equal(t, 1, repo.deleteCalls)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 1, summary.Skipped)
	})

	t.Run("should reject an unknown operation", func(t *testing.T) {
		repo := newFakeArticleRepo()
		runner := newRunner(repo, &fakeTranslationAPI{}, &fakeGenerationAPI{})

		_, err := runner.Run(context.Background(), BatchOperation("publish"), []string{"a1"})

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("should reject an empty id list", func(t *testing.T) {
		repo := newFakeArticleRepo()
		runner := newRunner(repo, &fakeTranslationAPI{}, &fakeGenerationAPI{})

		_, err := runner.Run(context.Background(), BatchTranslate, nil)

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		repo := newFakeArticleRepo(rawArticle("a1"))
		runner := newRunner(repo, &fakeTranslationAPI{result: "çeviri"}, &fakeGenerationAPI{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := runner.Run(ctx, BatchTranslate, []string{"a1"})

		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, summary.Succeeded)
	})
}
