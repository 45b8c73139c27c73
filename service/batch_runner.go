// ABOUTME: Sequential batch executor for pipeline operations
// ABOUTME: One failing article never aborts the rest of the batch
package service

import (
	"context"
	"fmt"
	"log/slog"

	"news-optimizer/domain"
	"news-optimizer/repository"
)

type batchRunner struct {
	articles    repository.ArticleRepository
	translation TranslationStage
	enrichment  EnrichmentStage
	logger      *slog.Logger
}

// NewBatchRunner wires the batch executor over the pipeline stages.
func NewBatchRunner(
	articles repository.ArticleRepository,
	translation TranslationStage,
	enrichment EnrichmentStage,
	logger *slog.Logger,
) BatchRunner {
	return &batchRunner{
		articles:    articles,
		translation: translation,
		enrichment:  enrichment,
		logger:      logger,
	}
}

func (r *batchRunner) Run(ctx context.Context, operation BatchOperation, articleIDs []string) (*BatchSummary, error) {
	if len(articleIDs) == 0 {
		return nil, fmt.Errorf("%w: no article ids", domain.ErrInvalidRequest)
	}

	switch operation {
	case BatchTranslate:
		return r.runStage(ctx, operation, articleIDs, r.translation.Translate)
	case BatchEnrich:
		return r.runStage(ctx, operation, articleIDs, r.enrichment.Enrich)
	case BatchDelete:
		return r.runDelete(ctx, articleIDs)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidRequest, operation)
	}
}

// runStage applies one pipeline stage per article, sequentially. Stages are
// rate-limited upstream by the credential pool, so no concurrency here.
func (r *batchRunner) runStage(ctx context.Context, operation BatchOperation, articleIDs []string, stage func(context.Context, string) (StageOutcome, error)) (*BatchSummary, error) {
	summary := &BatchSummary{Requested: len(articleIDs)}

	for _, id := range articleIDs {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("batch %s aborted: %w", operation, err)
		}

		outcome, err := stage(ctx, id)
		switch {
		case err != nil:
			r.logger.Error("batch item failed",
				"operation", operation, "article_id", id, "error", err)
			summary.Failed++
		case outcome == OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}

	r.logger.Info("batch finished",
		"operation", operation,
		"requested", summary.Requested,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

// runDelete removes all requested articles in a single statement. Ids that no
// longer exist count as skipped.
func (r *batchRunner) runDelete(ctx context.Context, articleIDs []string) (*BatchSummary, error) {
	summary := &BatchSummary{Requested: len(articleIDs)}

	deleted, err := r.articles.DeleteMany(ctx, articleIDs)
	if err != nil {
		summary.Failed = len(articleIDs)
		return summary, err
	}

	summary.Succeeded = int(deleted)
	summary.Skipped = len(articleIDs) - summary.Succeeded

	r.logger.Info("batch delete finished",
		"requested", summary.Requested, "deleted", summary.Succeeded)
	return summary, nil
}
