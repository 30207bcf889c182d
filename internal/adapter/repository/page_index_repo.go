package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/time/rate"

	"docqa-orchestrator/internal/domain"
)

type pageIndexRepository struct {
	pool    *pgxpool.Pool
	encoder domain.VectorEncoder
	limiter *rate.Limiter
	topK    int
	logger  *slog.Logger
}

// NewPageIndexRepository creates a DocumentIndex over pgvector-backed page
// chunks. The rate limiter throttles embedding calls across the concurrent
// sub-question fan-out; zero or negative searchesPerSecond disables it.
func NewPageIndexRepository(pool *pgxpool.Pool, encoder domain.VectorEncoder, searchesPerSecond float64, topK int, logger *slog.Logger) domain.DocumentIndex {
	var limiter *rate.Limiter
	if searchesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(searchesPerSecond), 1)
	}
	if topK <= 0 {
		topK = 10
	}
	return &pageIndexRepository{
		pool:    pool,
		encoder: encoder,
		limiter: limiter,
		topK:    topK,
		logger:  logger,
	}
}

// Search embeds the query and runs a cosine-similarity scan over the chunk
// table. Scores are normalized to 0-100. When filterPages is set, only
// chunks on those pages are considered.
func (r *pageIndexRepository) Search(ctx context.Context, query string, filterPages []int) ([]domain.SearchCandidate, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search rate limit wait: %w", err)
		}
	}

	embeddings, err := r.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("encoder returned no embedding")
	}
	queryVector := pgvector.NewVector(embeddings[0])

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> $1) recovers the similarity.
	sql := `
		SELECT page, content, 1 - (embedding <=> $1) AS similarity
		FROM doc_chunks`
	args := []interface{}{queryVector}
	if len(filterPages) > 0 {
		sql += ` WHERE page = ANY($2)`
		args = append(args, filterPages)
	}
	sql += fmt.Sprintf(` ORDER BY embedding <=> $1 LIMIT %d`, r.topK)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var candidates []domain.SearchCandidate
	for rows.Next() {
		var (
			page       int
			content    string
			similarity float64
		)
		if err := rows.Scan(&page, &content, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		candidates = append(candidates, domain.SearchCandidate{
			Page:  page,
			Text:  content,
			Score: similarity * 100,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunk rows: %w", err)
	}

	r.logger.Debug("index_search_completed",
		slog.Int("candidates", len(candidates)),
		slog.Int("filter_pages", len(filterPages)))
	return candidates, nil
}

// PageText returns the full text of one page.
func (r *pageIndexRepository) PageText(ctx context.Context, page int) (string, error) {
	var content string
	err := r.pool.QueryRow(ctx,
		`SELECT content FROM doc_pages WHERE page = $1`, page,
	).Scan(&content)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page %d: %w", page, err)
	}
	return content, nil
}

var _ domain.DocumentIndex = (*pageIndexRepository)(nil)
