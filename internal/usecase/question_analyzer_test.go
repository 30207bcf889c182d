package usecase_test

import (
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestQuestionAnalyzer_Analyze_Types(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())

	tests := []struct {
		name     string
		question string
		expected domain.QuestionType
	}{
		{
			name:     "procedural",
			question: "How do I drain the fuel sump before flight?",
			expected: domain.QuestionProcedural,
		},
		{
			name:     "comparative",
			question: "What is the difference between a fixed-pitch and constant-speed propeller?",
			expected: domain.QuestionComparative,
		},
		{
			name:     "causal",
			question: "Why does the engine lose power at high altitude?",
			expected: domain.QuestionCausal,
		},
		{
			name:     "diagnostic",
			question: "Troubleshoot the rough running engine malfunction",
			expected: domain.QuestionDiagnostic,
		},
		{
			name:     "mechanism",
			question: "How does a carburetor work?",
			expected: domain.QuestionMechanism,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.Analyze(tt.question)
			assert.Equal(t, tt.expected, got.Type)
		})
	}
}

func TestQuestionAnalyzer_MechanismOverride(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())

	// Phrasing asks what a signal reveals, so the override replaces the
	// factual classification outright.
	got := analyzer.Analyze("What is carburetor icing detected by?")
	assert.Equal(t, domain.QuestionMechanism, got.Type)

	disabled := usecase.DefaultAnalyzerConfig()
	disabled.MechanismOverride = false
	got = usecase.NewQuestionAnalyzer(disabled).Analyze("What is carburetor icing detected by?")
	assert.NotEqual(t, domain.QuestionMechanism, got.Type)
}

func TestQuestionAnalyzer_TrickQuestion(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())

	got := analyzer.Analyze("Why does a diesel engine need spark plugs?")
	assert.True(t, got.Intent.IsTrickQuestion)
	assert.Equal(t, [2]string{"diesel", "spark"}, got.Intent.ContradictoryTerms)

	plain := analyzer.Analyze("Why does a diesel engine need glow plugs?")
	assert.False(t, plain.Intent.IsTrickQuestion)
}

func TestQuestionAnalyzer_StrategyLookup(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())

	strategy := analyzer.Strategy(domain.QuestionProcedural)
	assert.True(t, strategy.Decompose)
	assert.True(t, strategy.Verify)
	assert.Contains(t, strategy.PrioritySections, domain.SectionProcedure)

	factual := analyzer.Strategy(domain.QuestionFactual)
	assert.False(t, factual.Decompose)
	assert.False(t, factual.Verify)
}

func TestQuestionAnalyzer_KeyTermsCapped(t *testing.T) {
	cfg := usecase.DefaultAnalyzerConfig()
	cfg.MaxKeyTerms = 2
	analyzer := usecase.NewQuestionAnalyzer(cfg)

	got := analyzer.Analyze("Explain carburetor heat mixture control propeller governor")
	assert.Len(t, got.Intent.KeyTerms, 2)
}
