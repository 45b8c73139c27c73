// ABOUTME: Postgres-backed site configuration repository
// ABOUTME: Feed sources and credential pools live as text[] columns on one row
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"news-optimizer/domain"
)

type siteRepository struct {
	pool   *pgxpool.Pool
	siteID string
	logger *slog.Logger
}

// NewSiteRepository creates a SiteRepository bound to a single site row.
func NewSiteRepository(pool *pgxpool.Pool, siteID string, logger *slog.Logger) SiteRepository {
	return &siteRepository{pool: pool, siteID: siteID, logger: logger}
}

func (r *siteRepository) GetSiteConfig(ctx context.Context) (*domain.SiteConfig, error) {
	query := `SELECT id, feed_sources, translation_keys, generation_keys
		FROM sites WHERE id = $1`

	var cfg domain.SiteConfig
	err := r.pool.QueryRow(ctx, query, r.siteID).Scan(
		&cfg.ID, &cfg.FeedSources, &cfg.TranslationKeys, &cfg.GenerationKeys,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSiteConfigMissing
		}
		r.logger.Error("failed to query site config", "site_id", r.siteID, "error", err)
		return nil, fmt.Errorf("querying site config: %w", err)
	}
	return &cfg, nil
}

func (r *siteRepository) AddFeedSource(ctx context.Context, feedURL string) error {
	return r.appendUnique(ctx, "feed_sources", feedURL)
}

func (r *siteRepository) RemoveFeedSource(ctx context.Context, feedURL string) error {
	return r.removeAll(ctx, "feed_sources", feedURL)
}

func (r *siteRepository) AddCredential(ctx context.Context, provider domain.Provider, key string) error {
	column, err := credentialColumn(provider)
	if err != nil {
		return err
	}
	return r.appendUnique(ctx, column, key)
}

func (r *siteRepository) RemoveCredential(ctx context.Context, provider domain.Provider, key string) error {
	column, err := credentialColumn(provider)
	if err != nil {
		return err
	}
	return r.removeAll(ctx, column, key)
}

// appendUnique adds value to the named array column unless it is already
// present, so repeated adds stay idempotent.
func (r *siteRepository) appendUnique(ctx context.Context, column, value string) error {
	query := fmt.Sprintf(`UPDATE sites SET %s = array_append(%s, $2)
		WHERE id = $1 AND NOT ($2 = ANY(%s))`, column, column, column)

	tag, err := r.pool.Exec(ctx, query, r.siteID, value)
	if err != nil {
		r.logger.Error("failed to update site config",
			"site_id", r.siteID, "column", column, "error", err)
		return fmt.Errorf("updating site config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the value is already present (a no-op) or the site row is
		// missing. Distinguish the two so misconfiguration surfaces.
		return r.ensureSiteExists(ctx)
	}
	return nil
}

func (r *siteRepository) removeAll(ctx context.Context, column, value string) error {
	query := fmt.Sprintf(`UPDATE sites SET %s = array_remove(%s, $2) WHERE id = $1`,
		column, column)

	tag, err := r.pool.Exec(ctx, query, r.siteID, value)
	if err != nil {
		r.logger.Error("failed to update site config",
			"site_id", r.siteID, "column", column, "error", err)
		return fmt.Errorf("updating site config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSiteConfigMissing
	}
	return nil
}

func (r *siteRepository) ensureSiteExists(ctx context.Context) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sites WHERE id = $1)`, r.siteID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking site config: %w", err)
	}
	if !exists {
		return domain.ErrSiteConfigMissing
	}
	return nil
}

func credentialColumn(provider domain.Provider) (string, error) {
	switch provider {
	case domain.ProviderTranslation:
		return "translation_keys", nil
	case domain.ProviderGeneration:
		return "generation_keys", nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidRequest, provider)
	}
}
