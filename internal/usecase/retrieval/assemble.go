package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"docqa-orchestrator/internal/domain"

	"golang.org/x/sync/errgroup"
)

// AssembleContext fetches full text for the selected pages concurrently and
// builds the context string (Stage 4). Individual page-fetch failures are
// logged and skipped. If no page text comes back at all, raw candidate
// snippets are concatenated instead — retrieval never returns an empty
// context while any candidate exists.
func AssembleContext(
	ctx context.Context,
	sc *StageContext,
	index domain.DocumentIndex,
	logger *slog.Logger,
) {
	sc.PageTexts = make(map[int]string, len(sc.SelectedPages))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, page := range sc.SelectedPages {
		g.Go(func() error {
			text, err := index.PageText(gctx, page)
			if err != nil {
				logger.Warn("page_fetch_failed",
					slog.String("run_id", sc.RunID),
					slog.Int("page", page),
					slog.String("error", err.Error()))
				return nil // non-fatal
			}
			if strings.TrimSpace(text) == "" {
				return nil
			}
			mu.Lock()
			sc.PageTexts[page] = text
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(sc.PageTexts) > 0 {
		var sb strings.Builder
		// Keep document order inside the context string even though pages
		// were selected by score.
		pages := make([]int, 0, len(sc.PageTexts))
		for page := range sc.PageTexts {
			pages = append(pages, page)
		}
		sort.Ints(pages)
		for _, page := range pages {
			fmt.Fprintf(&sb, "[Page %d]\n%s\n\n", page, strings.TrimSpace(sc.PageTexts[page]))
		}
		sc.ContextText = strings.TrimSpace(sb.String())
		return
	}

	sc.ContextText = snippetFallback(sc)
	sc.UsedFallback = sc.ContextText != ""
	if sc.UsedFallback {
		logger.Warn("page_fetch_empty_using_snippet_fallback",
			slog.String("run_id", sc.RunID),
			slog.Int("selected_pages", len(sc.SelectedPages)))
	}
}

func snippetFallback(sc *StageContext) string {
	// Deterministic order: iterate sub-questions, not the map.
	var snippets []string
	for _, sq := range sc.SubQuestions {
		candidates := sc.CandidatesBySubQuestion[sq.ID]
		limit := sc.SnippetsPerSubQuestion
		if len(candidates) < limit {
			limit = len(candidates)
		}
		for i := 0; i < limit; i++ {
			snippets = append(snippets, fmt.Sprintf("[Page %d] %s",
				candidates[i].Page, strings.TrimSpace(candidates[i].Text)))
			if len(snippets) >= sc.SnippetFallbackLimit {
				return strings.Join(snippets, "\n\n")
			}
		}
	}
	return strings.Join(snippets, "\n\n")
}
