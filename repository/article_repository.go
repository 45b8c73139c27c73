// ABOUTME: Postgres-backed article repository built on pgxpool
// ABOUTME: Owns all SQL touching the articles table
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"news-optimizer/domain"
)

type articleRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewArticleRepository creates a Postgres-backed ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool, logger *slog.Logger) ArticleRepository {
	return &articleRepository{pool: pool, logger: logger}
}

const articleColumns = `id, article_key, title, link, source_feed, raw_content,
	translated_content, enriched_content, seo_metadata, media_urls, status,
	published_at, ingested_at, optimized_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	seoJSON, err := marshalSEO(article.SEOMetadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (
			id, article_key, title, link, source_feed, raw_content,
			translated_content, enriched_content, seo_metadata, media_urls,
			status, published_at, ingested_at, optimized_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.pool.Exec(ctx, query,
		article.ID, article.ArticleKey, article.Title, article.Link,
		article.SourceFeed, article.RawContent, article.TranslatedContent,
		article.EnrichedContent, seoJSON, article.MediaURLs, article.Status,
		article.PublishedAt, article.IngestedAt, article.OptimizedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateArticle
		}
		r.logger.Error("failed to insert article",
			"article_key", article.ArticleKey, "error", err)
		return fmt.Errorf("inserting article: %w", err)
	}
	return nil
}

func (r *articleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	var (
		article domain.Article
		seoJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID, &article.ArticleKey, &article.Title, &article.Link,
		&article.SourceFeed, &article.RawContent, &article.TranslatedContent,
		&article.EnrichedContent, &seoJSON, &article.MediaURLs, &article.Status,
		&article.PublishedAt, &article.IngestedAt, &article.OptimizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		r.logger.Error("failed to query article", "article_id", id, "error", err)
		return nil, fmt.Errorf("querying article: %w", err)
	}

	if len(seoJSON) > 0 {
		var seo domain.SEOMetadata
		if err := json.Unmarshal(seoJSON, &seo); err != nil {
			return nil, fmt.Errorf("decoding seo metadata: %w", err)
		}
		article.SEOMetadata = &seo
	}
	return &article, nil
}

func (r *articleRepository) ExistsByKey(ctx context.Context, articleKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE article_key = $1)`,
		articleKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking article existence: %w", err)
	}
	return exists, nil
}

func (r *articleRepository) UpdateTranslation(ctx context.Context, id, translatedContent string) error {
	return r.update(ctx, id,
		`UPDATE articles SET translated_content = $2, status = $3 WHERE id = $1`,
		translatedContent, domain.StatusTranslated)
}

func (r *articleRepository) UpdateEnrichment(ctx context.Context, id, enrichedContent string, seo *domain.SEOMetadata, optimizedAt time.Time) error {
	seoJSON, err := marshalSEO(seo)
	if err != nil {
		return err
	}
	return r.update(ctx, id,
		`UPDATE articles SET enriched_content = $2, seo_metadata = $3,
			status = $4, optimized_at = $5 WHERE id = $1`,
		enrichedContent, seoJSON, domain.StatusEnriched, optimizedAt)
}

func (r *articleRepository) UpdateTranslatedContent(ctx context.Context, id, translatedContent string) error {
	return r.update(ctx, id,
		`UPDATE articles SET translated_content = $2 WHERE id = $1`,
		translatedContent)
}

func (r *articleRepository) update(ctx context.Context, id, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		r.logger.Error("failed to update article", "article_id", id, "error", err)
		return fmt.Errorf("updating article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *articleRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error("failed to delete articles", "count", len(ids), "error", err)
		return 0, fmt.Errorf("deleting articles: %w", err)
	}
	return tag.RowsAffected(), nil
}

func marshalSEO(seo *domain.SEOMetadata) ([]byte, error) {
	if seo == nil {
		return nil, nil
	}
	data, err := json.Marshal(seo)
	if err != nil {
		return nil, fmt.Errorf("encoding seo metadata: %w", err)
	}
	return data, nil
}
