package service

import "context"

// StageOutcome reports what a pipeline stage did with an article. Skipped
// means the article was not in the status the stage consumes; the batch
// runner counts skips separately from successes and failures.
type StageOutcome int

const (
	OutcomeCompleted StageOutcome = iota
	OutcomeSkipped
)

// BatchOperation names an operation the batch runner can apply.
type BatchOperation string

const (
	BatchTranslate BatchOperation = "translate"
	BatchEnrich    BatchOperation = "enrich"
	BatchDelete    BatchOperation = "delete"
)

// IngestResult summarizes one ingestion run across all feed sources.
type IngestResult struct {
	FeedsProcessed int `json:"feeds_processed"`
	FeedsFailed    int `json:"feeds_failed"`
	ItemsSeen      int `json:"items_seen"`
	Added          int `json:"added"`
	Duplicates     int `json:"duplicates"`
	Failed         int `json:"failed"`
}

// BatchSummary reports per-item results of a batch run. Items are processed
// sequentially and one failure never aborts the rest.
type BatchSummary struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// FeedIngestor pulls every registered feed source and stores new articles.
type FeedIngestor interface {
	IngestAll(ctx context.Context) (*IngestResult, error)
}

// TranslationStage moves a raw article to translated.
type TranslationStage interface {
	Translate(ctx context.Context, articleID string) (StageOutcome, error)
}

// EnrichmentStage moves a translated article to enriched.
type EnrichmentStage interface {
	Enrich(ctx context.Context, articleID string) (StageOutcome, error)
}

// BatchRunner applies a pipeline operation to a list of articles.
type BatchRunner interface {
	Run(ctx context.Context, operation BatchOperation, articleIDs []string) (*BatchSummary, error)
}
