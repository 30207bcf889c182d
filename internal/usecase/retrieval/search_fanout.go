package retrieval

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"docqa-orchestrator/internal/domain"

	"golang.org/x/sync/errgroup"
)

// SearchFanOut issues one index search per sub-question concurrently
// (Stage 1). Each call has independent failure isolation: a failing search
// degrades to zero candidates for that sub-question and never aborts the
// batch.
func SearchFanOut(
	ctx context.Context,
	sc *StageContext,
	index domain.DocumentIndex,
	logger *slog.Logger,
) {
	start := time.Now()
	sc.CandidatesBySubQuestion = make(map[string][]domain.SearchCandidate, len(sc.SubQuestions))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, sq := range sc.SubQuestions {
		g.Go(func() error {
			candidates, err := index.Search(gctx, sq.Question, sc.FilterPages)
			if err != nil {
				logger.Warn("sub_question_search_failed",
					slog.String("run_id", sc.RunID),
					slog.String("sub_question", sq.Question),
					slog.String("error", err.Error()))
				candidates = nil // non-fatal
			}
			mu.Lock()
			sc.CandidatesBySubQuestion[sq.ID] = candidates
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	total := 0
	for _, candidates := range sc.CandidatesBySubQuestion {
		total += len(candidates)
	}
	logger.Info("search_fanout_completed",
		slog.String("run_id", sc.RunID),
		slog.Int("sub_question_count", len(sc.SubQuestions)),
		slog.Int("candidate_count", total),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
}
