package domain

import (
	"time"
)

// Status is the processing state of an article. Transitions are monotonic:
// raw -> translated -> enriched. A failed stage leaves the status untouched
// so the article stays eligible for retry.
type Status string

const (
	StatusRaw        Status = "raw"
	StatusTranslated Status = "translated"
	StatusEnriched   Status = "enriched"
)

// Next returns the status a successful stage run moves to, or empty when the
// status is terminal.
func (s Status) Next() Status {
	switch s {
	case StatusRaw:
		return StatusTranslated
	case StatusTranslated:
		return StatusEnriched
	default:
		return ""
	}
}

// Article represents an ingested article and its pipeline state.
type Article struct {
	ID                string      `db:"id" json:"id"`
	ArticleKey        string      `db:"article_key" json:"articleKey"`
	Title             string      `db:"title" json:"title"`
	Link              string      `db:"link" json:"link"`
	SourceFeed        string      `db:"source_feed" json:"sourceFeed"`
	RawContent        string      `db:"raw_content" json:"rawContent"`
	TranslatedContent string      `db:"translated_content" json:"translatedContent,omitempty"`
	EnrichedContent   string      `db:"enriched_content" json:"enrichedContent,omitempty"`
	SEOMetadata       *SEOMetadata `db:"seo_metadata" json:"seoMetadata,omitempty"`
	MediaURLs         []string    `db:"media_urls" json:"mediaUrls,omitempty"`
	Status            Status      `db:"status" json:"status"`
	PublishedAt       time.Time   `db:"published_at" json:"publishedAt"`
	IngestedAt        time.Time   `db:"ingested_at" json:"ingestedAt"`
	OptimizedAt       *time.Time  `db:"optimized_at" json:"optimizedAt,omitempty"`
}

// SEOMetadata is the structured SEO block produced by the enrichment stage.
type SEOMetadata struct {
	Title           string         `json:"title"`
	MetaDescription string         `json:"metaDescription"`
	Keywords        []string       `json:"keywords"`
	Subheadings     []string       `json:"subheadings"`
	StructuredData  map[string]any `json:"structuredData"`
}
