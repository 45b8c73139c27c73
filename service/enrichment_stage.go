// ABOUTME: Enrichment stage of the article pipeline
// ABOUTME: Turns translated articles into SEO-enriched HTML via the generation API
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"news-optimizer/domain"
	"news-optimizer/keypool"
	"news-optimizer/repository"
	"news-optimizer/utils/html_parser"
	"news-optimizer/utils/jsonblock"
)

const enrichmentPromptTemplate = `You are an experienced news editor and SEO specialist.
Rewrite the following article as polished, publication-ready HTML and produce
search metadata for it.

Respond with ONLY a JSON object in exactly this shape:
{
  "enrichedContent": "<full article body as HTML>",
  "seoMetadata": {
    "title": "...",
    "metaDescription": "...",
    "keywords": ["..."],
    "subheadings": ["..."],
    "structuredData": {}
  }
}

Article title: %s

Article text:
%s`

type enrichmentPayload struct {
	EnrichedContent string              `json:"enrichedContent"`
	SEOMetadata     *domain.SEOMetadata `json:"seoMetadata"`
}

type enrichmentStage struct {
	articles repository.ArticleRepository
	sites    repository.SiteRepository
	api      repository.GenerationAPI
	logger   *slog.Logger
	now      func() time.Time
}

// NewEnrichmentStage creates the stage that enriches translated articles.
func NewEnrichmentStage(
	articles repository.ArticleRepository,
	sites repository.SiteRepository,
	api repository.GenerationAPI,
	logger *slog.Logger,
) EnrichmentStage {
	return &enrichmentStage{
		articles: articles,
		sites:    sites,
		api:      api,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *enrichmentStage) Enrich(ctx context.Context, articleID string) (StageOutcome, error) {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return OutcomeSkipped, err
	}
	if article.Status != domain.StatusTranslated {
		s.logger.Info("skipping enrichment, article not translated",
			"article_id", articleID, "status", article.Status)
		return OutcomeSkipped, nil
	}

	plainText := html_parser.StripTags(article.TranslatedContent)
	if plainText == "" {
		return OutcomeSkipped, fmt.Errorf("article %s: %w", articleID, domain.ErrArticleContentEmpty)
	}
	prompt := fmt.Sprintf(enrichmentPromptTemplate, article.Title, plainText)

	siteConfig, err := s.sites.GetSiteConfig(ctx)
	if err != nil {
		return OutcomeSkipped, err
	}
	keys := siteConfig.CredentialsFor(domain.ProviderGeneration)

	// Parsing happens inside the attempt: a model that returns garbage burns
	// that credential's try and the pool moves on to the next key.
	payload, err := keypool.Execute(ctx, s.logger, domain.ProviderGeneration, keys,
		func(ctx context.Context, credential string) (*enrichmentPayload, error) {
			raw, err := s.api.Generate(ctx, prompt, credential)
			if err != nil {
				return nil, err
			}
			return parseEnrichment(raw)
		})
	if err != nil {
		return OutcomeSkipped, err
	}

	enriched := html_parser.SanitizeContent(payload.EnrichedContent)
	if err := s.articles.UpdateEnrichment(ctx, articleID, enriched, payload.SEOMetadata, s.now()); err != nil {
		return OutcomeSkipped, err
	}

	s.logger.Info("article enriched",
		"article_id", articleID, "keywords", len(payload.SEOMetadata.Keywords))
	return OutcomeCompleted, nil
}

// parseEnrichment pulls the first JSON object out of the model response and
// decodes it. Models routinely wrap the JSON in prose or code fences.
func parseEnrichment(raw string) (*enrichmentPayload, error) {
	block, err := jsonblock.Extract(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrInvalidProviderResponse)
	}
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidProviderResponse, err)
	}
	if payload.EnrichedContent == "" {
		return nil, fmt.Errorf("%w: missing enrichedContent", domain.ErrInvalidProviderResponse)
	}
	if payload.SEOMetadata == nil {
		return nil, fmt.Errorf("%w: missing seoMetadata", domain.ErrInvalidProviderResponse)
	}
	return &payload, nil
}
