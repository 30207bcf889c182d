package retrieval

import (
	"log/slog"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// ScorePages computes a per-page aggregate relevance score (Stage 2): the
// sum of candidate scores, each rescaled by the section boost of its text.
// For diagnostic questions, a page whose candidates mention both a problem
// term and a symptom term gets the diagnostic co-occurrence boost — the
// cause→effect signal a troubleshooting answer usually sits next to.
func ScorePages(sc *StageContext, logger *slog.Logger) {
	sc.PageScores = make(map[int]float64)
	pageText := make(map[int]string)

	for _, candidates := range sc.CandidatesBySubQuestion {
		for _, cand := range candidates {
			classification := domain.ClassifySection(cand.Text)
			boost := domain.SectionBoost(classification.Type)
			sc.PageScores[cand.Page] += cand.Score * boost
			pageText[cand.Page] += " " + cand.Text
		}
	}

	if sc.QuestionType == domain.QuestionDiagnostic && sc.DiagnosticBoost > 1 {
		for page, text := range pageText {
			lower := strings.ToLower(text)
			if containsAny(lower, sc.ProblemTerms) && containsAny(lower, sc.SymptomTerms) {
				sc.PageScores[page] *= sc.DiagnosticBoost
				logger.Info("diagnostic_cooccurrence_boost",
					slog.String("run_id", sc.RunID),
					slog.Int("page", page))
			}
		}
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
