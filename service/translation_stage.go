// ABOUTME: Translation stage of the article pipeline
// ABOUTME: Moves raw articles to translated using the pooled translation API
package service

import (
	"context"
	"fmt"
	"log/slog"

	"news-optimizer/domain"
	"news-optimizer/keypool"
	"news-optimizer/repository"
)

type translationStage struct {
	articles repository.ArticleRepository
	sites    repository.SiteRepository
	api      repository.TranslationAPI
	logger   *slog.Logger
}

// NewTranslationStage creates the stage that translates raw articles.
func NewTranslationStage(
	articles repository.ArticleRepository,
	sites repository.SiteRepository,
	api repository.TranslationAPI,
	logger *slog.Logger,
) TranslationStage {
	return &translationStage{articles: articles, sites: sites, api: api, logger: logger}
}

func (s *translationStage) Translate(ctx context.Context, articleID string) (StageOutcome, error) {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return OutcomeSkipped, err
	}
	if article.Status != domain.StatusRaw {
		s.logger.Info("skipping translation, article not raw",
			"article_id", articleID, "status", article.Status)
		return OutcomeSkipped, nil
	}
	if article.RawContent == "" {
		return OutcomeSkipped, fmt.Errorf("article %s: %w", articleID, domain.ErrArticleContentEmpty)
	}

	siteConfig, err := s.sites.GetSiteConfig(ctx)
	if err != nil {
		return OutcomeSkipped, err
	}
	keys := siteConfig.CredentialsFor(domain.ProviderTranslation)

	translated, err := keypool.Execute(ctx, s.logger, domain.ProviderTranslation, keys,
		func(ctx context.Context, credential string) (string, error) {
			return s.api.Translate(ctx, article.RawContent, credential)
		})
	if err != nil {
		return OutcomeSkipped, err
	}

	if err := s.articles.UpdateTranslation(ctx, articleID, translated); err != nil {
		return OutcomeSkipped, err
	}

	s.logger.Info("article translated",
		"article_id", articleID, "chars", len(translated))
	return OutcomeCompleted, nil
}
