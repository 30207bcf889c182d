package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/google/uuid"
)

// RetrieveContextInput defines the input parameters for context retrieval.
type RetrieveContextInput struct {
	SubQuestions []domain.SubQuestion
	QuestionType domain.QuestionType
	FilterPages  []int
}

// ContextRetriever orchestrates parallel search across all sub-questions,
// ranks pages by aggregated relevance with section boosts, expands to
// neighboring pages, and assembles a bounded context string.
type ContextRetriever interface {
	GatherExpandedContext(ctx context.Context, input RetrieveContextInput) (*retrieval.RetrievedContext, error)
}

type contextRetriever struct {
	index  domain.DocumentIndex
	cfg    RetrieverConfig
	logger *slog.Logger
}

// NewContextRetriever creates a ContextRetriever over the given index.
func NewContextRetriever(index domain.DocumentIndex, cfg RetrieverConfig, logger *slog.Logger) ContextRetriever {
	return &contextRetriever{index: index, cfg: cfg, logger: logger}
}

func (r *contextRetriever) GatherExpandedContext(ctx context.Context, input RetrieveContextInput) (*retrieval.RetrievedContext, error) {
	if len(input.SubQuestions) == 0 {
		return nil, fmt.Errorf("no sub-questions to retrieve for")
	}

	sc := &retrieval.StageContext{
		RunID:        uuid.NewString(),
		SubQuestions: input.SubQuestions,
		QuestionType: input.QuestionType,
		FilterPages:  input.FilterPages,

		TopPages:               r.cfg.TopPages,
		NeighborSpan:           r.cfg.NeighborSpan,
		NeighborScoreFactor:    r.cfg.NeighborScoreFactor,
		SnippetsPerSubQuestion: r.cfg.SnippetsPerSubQuestion,
		SnippetFallbackLimit:   r.cfg.SnippetFallbackLimit,
		DiagnosticBoost:        r.cfg.DiagnosticBoost,
		ProblemTerms:           r.cfg.ProblemTerms,
		SymptomTerms:           r.cfg.SymptomTerms,
	}

	// Stage 1: concurrent per-sub-question search with failure isolation.
	retrieval.SearchFanOut(ctx, sc, r.index, r.logger)

	// Stage 2: aggregate page scores with section and diagnostic boosts.
	retrieval.ScorePages(sc, r.logger)

	// Stage 3: neighbor expansion and top-page selection by score.
	retrieval.ExpandAndSelect(sc, r.logger)

	// Stage 4: concurrent page fetch with snippet fallback.
	retrieval.AssembleContext(ctx, sc, r.index, r.logger)

	r.logger.Info("retrieval_completed",
		slog.String("run_id", sc.RunID),
		slog.Int("pages", len(sc.AllPages)),
		slog.Int("context_chars", len(sc.ContextText)),
		slog.Bool("used_fallback", sc.UsedFallback))

	return &retrieval.RetrievedContext{
		Contexts:     sc.CandidatesBySubQuestion,
		AllPages:     sc.AllPages,
		ContextText:  sc.ContextText,
		UsedFallback: sc.UsedFallback,
	}, nil
}
