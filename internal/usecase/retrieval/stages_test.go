package retrieval_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	searchFn   func(ctx context.Context, query string, filterPages []int) ([]domain.SearchCandidate, error)
	pageTextFn func(ctx context.Context, page int) (string, error)
}

func (f *fakeIndex) Search(ctx context.Context, query string, filterPages []int) ([]domain.SearchCandidate, error) {
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, query, filterPages)
}

func (f *fakeIndex) PageText(ctx context.Context, page int) (string, error) {
	if f.pageTextFn == nil {
		return "", fmt.Errorf("no page text")
	}
	return f.pageTextFn(ctx, page)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newStageContext(subs []domain.SubQuestion) *retrieval.StageContext {
	return &retrieval.StageContext{
		RunID:                  "test-run",
		SubQuestions:           subs,
		QuestionType:           domain.QuestionFactual,
		TopPages:               5,
		NeighborSpan:           1,
		NeighborScoreFactor:    0.5,
		SnippetsPerSubQuestion: 3,
		SnippetFallbackLimit:   20,
		DiagnosticBoost:        3.0,
		ProblemTerms:           []string{"blockage", "icing"},
		SymptomTerms:           []string{"rough", "loss"},
	}
}

func TestSearchFanOut_FailureIsolation(t *testing.T) {
	subs := []domain.SubQuestion{
		{ID: "sq1", Question: "good question"},
		{ID: "sq2", Question: "bad question"},
	}
	index := &fakeIndex{
		searchFn: func(_ context.Context, query string, _ []int) ([]domain.SearchCandidate, error) {
			if strings.Contains(query, "bad") {
				return nil, fmt.Errorf("search backend down")
			}
			return []domain.SearchCandidate{{Page: 3, Text: "found it", Score: 70}}, nil
		},
	}

	sc := newStageContext(subs)
	retrieval.SearchFanOut(context.Background(), sc, index, discardLogger())

	assert.Len(t, sc.CandidatesBySubQuestion["sq1"], 1, "healthy sub-question keeps its results")
	assert.Empty(t, sc.CandidatesBySubQuestion["sq2"], "failed sub-question degrades to no candidates")
}

func TestScorePages_SectionBoostApplied(t *testing.T) {
	sc := newStageContext([]domain.SubQuestion{{ID: "sq1", Question: "q"}})
	sc.CandidatesBySubQuestion = map[string][]domain.SearchCandidate{
		"sq1": {
			{Page: 1, Text: "Step 1: drain the sump. Then, inspect the fuel.", Score: 10}, // procedure, 1.3
			{Page: 2, Text: "no indicators in this chunk", Score: 10},                     // unknown, 0.8
		},
	}

	retrieval.ScorePages(sc, discardLogger())

	assert.InDelta(t, 13.0, sc.PageScores[1], 1e-9)
	assert.InDelta(t, 8.0, sc.PageScores[2], 1e-9)
}

func TestScorePages_DiagnosticCooccurrenceBoost(t *testing.T) {
	sc := newStageContext([]domain.SubQuestion{{ID: "sq1", Question: "q"}})
	sc.QuestionType = domain.QuestionDiagnostic
	sc.CandidatesBySubQuestion = map[string][]domain.SearchCandidate{
		"sq1": {
			{Page: 7, Text: "carburetor icing leads to a loss of power", Score: 10},
			{Page: 8, Text: "icing conditions exist near freezing", Score: 10},
		},
	}

	retrieval.ScorePages(sc, discardLogger())

	// Page 7 mentions a problem term and a symptom term; page 8 only a
	// problem term.
	assert.Equal(t, sc.PageScores[7], sc.PageScores[8]*3,
		"co-occurring problem and symptom terms triple the page score")
}

func TestExpandAndSelect_NeighborsInheritFractionalScore(t *testing.T) {
	sc := newStageContext(nil)
	sc.PageScores = map[int]float64{5: 10}

	retrieval.ExpandAndSelect(sc, discardLogger())

	assert.ElementsMatch(t, []int{4, 5, 6}, sc.AllPages)
	assert.Equal(t, 5, sc.SelectedPages[0], "direct hit outranks inherited neighbors")
}

func TestExpandAndSelect_FilterPagesBoundsExpansion(t *testing.T) {
	sc := newStageContext(nil)
	sc.FilterPages = []int{5, 6}
	sc.PageScores = map[int]float64{5: 10}

	retrieval.ExpandAndSelect(sc, discardLogger())

	assert.ElementsMatch(t, []int{5, 6}, sc.AllPages, "page 4 is outside the filter")
}

func TestExpandAndSelect_TopPagesByScoreNotOrder(t *testing.T) {
	sc := newStageContext(nil)
	sc.NeighborSpan = 0
	sc.TopPages = 2
	sc.PageScores = map[int]float64{1: 5, 2: 50, 3: 30, 4: 1}

	retrieval.ExpandAndSelect(sc, discardLogger())

	assert.Equal(t, []int{2, 3}, sc.SelectedPages)
	assert.Equal(t, []int{1, 2, 3, 4}, sc.AllPages, "AllPages stays ascending")
}

func TestAssembleContext_PageOrderAndFormat(t *testing.T) {
	sc := newStageContext(nil)
	sc.SelectedPages = []int{9, 2}
	index := &fakeIndex{
		pageTextFn: func(_ context.Context, page int) (string, error) {
			return fmt.Sprintf("text of page %d", page), nil
		},
	}

	retrieval.AssembleContext(context.Background(), sc, index, discardLogger())

	require.NotEmpty(t, sc.ContextText)
	assert.False(t, sc.UsedFallback)
	// Document order regardless of selection order.
	assert.Less(t,
		strings.Index(sc.ContextText, "[Page 2]"),
		strings.Index(sc.ContextText, "[Page 9]"))
	assert.Contains(t, sc.ContextText, "text of page 9")
}

func TestAssembleContext_SnippetFallback(t *testing.T) {
	subs := []domain.SubQuestion{{ID: "sq1", Question: "q"}}
	sc := newStageContext(subs)
	sc.SelectedPages = []int{4}
	sc.CandidatesBySubQuestion = map[string][]domain.SearchCandidate{
		"sq1": {
			{Page: 4, Text: "snippet one", Score: 80},
			{Page: 5, Text: "snippet two", Score: 60},
		},
	}
	index := &fakeIndex{
		pageTextFn: func(_ context.Context, _ int) (string, error) {
			return "", fmt.Errorf("page store unavailable")
		},
	}

	retrieval.AssembleContext(context.Background(), sc, index, discardLogger())

	assert.True(t, sc.UsedFallback)
	assert.Contains(t, sc.ContextText, "[Page 4] snippet one")
	assert.Contains(t, sc.ContextText, "[Page 5] snippet two")
}

func TestAssembleContext_FallbackRespectsLimits(t *testing.T) {
	var subs []domain.SubQuestion
	candidates := make(map[string][]domain.SearchCandidate)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("sq%d", i)
		subs = append(subs, domain.SubQuestion{ID: id, Question: id})
		for j := 0; j < 5; j++ {
			candidates[id] = append(candidates[id], domain.SearchCandidate{
				Page: i*10 + j, Text: fmt.Sprintf("chunk %d-%d", i, j), Score: 50,
			})
		}
	}
	sc := newStageContext(subs)
	sc.SelectedPages = []int{1}
	sc.CandidatesBySubQuestion = candidates
	index := &fakeIndex{}

	retrieval.AssembleContext(context.Background(), sc, index, discardLogger())

	require.True(t, sc.UsedFallback)
	snippets := strings.Split(sc.ContextText, "\n\n")
	assert.Len(t, snippets, 20, "fallback caps at the global snippet limit")
}
