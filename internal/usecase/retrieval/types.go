package retrieval

import "docqa-orchestrator/internal/domain"

// StageContext carries data between retrieval pipeline stages.
type StageContext struct {
	// Input
	RunID        string
	SubQuestions []domain.SubQuestion
	QuestionType domain.QuestionType
	FilterPages  []int

	// Stage 1 outputs (fan-out search)
	CandidatesBySubQuestion map[string][]domain.SearchCandidate

	// Stage 2 outputs (page scoring)
	PageScores map[int]float64

	// Stage 3 outputs (expansion + selection)
	SelectedPages []int
	AllPages      []int

	// Stage 4 outputs (assembly)
	PageTexts    map[int]string
	ContextText  string
	UsedFallback bool

	// Config values (set once at init)
	TopPages               int
	NeighborSpan           int
	NeighborScoreFactor    float64
	SnippetsPerSubQuestion int
	SnippetFallbackLimit   int
	DiagnosticBoost        float64
	ProblemTerms           []string
	SymptomTerms           []string
}

// RetrievedContext is the assembled retrieval result handed to the
// orchestrator.
type RetrievedContext struct {
	// Contexts maps sub-question ID to its scored candidates.
	Contexts map[string][]domain.SearchCandidate
	// AllPages is the union of candidate pages plus expansion, ascending.
	AllPages []int
	// ContextText is the bounded assembled context string. Never empty when
	// any candidate exists.
	ContextText string
	// UsedFallback reports that page fetching yielded nothing and raw
	// snippets were concatenated instead.
	UsedFallback bool
}
