package domain

import "context"

// SearchCandidate is a scored passage returned by the document index for one query.
type SearchCandidate struct {
	// Page is the 1-based page number the passage was found on.
	Page int
	// Text is the passage content.
	Text string
	// Score is the index relevance score. The pgvector adapter normalizes
	// cosine similarity to a 0-100 range.
	Score float64
}

// DocumentIndex defines the search capability the pipeline consumes.
// An empty result set is not an error.
type DocumentIndex interface {
	// Search returns scored passages for a query. If filterPages is not
	// empty, results are restricted to those pages.
	Search(ctx context.Context, query string, filterPages []int) ([]SearchCandidate, error)

	// PageText returns the full text of a single page.
	PageText(ctx context.Context, page int) (string, error)
}
