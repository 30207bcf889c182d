package usecase_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceChainBuilder_ExplicitSupport(t *testing.T) {
	builder := usecase.NewEvidenceChainBuilder(usecase.DefaultEvidenceConfig())

	candidates := []domain.SearchCandidate{
		{Page: 12, Text: "Applying carburetor heat prevents icing in the venturi.", Score: 80},
		{Page: 30, Text: "The landing gear is fixed and requires no retraction checks.", Score: 60},
	}

	chains := builder.Build(
		"What prevents carburetor icing?",
		[]string{"A. carburetor heat", "B. landing gear retraction"},
		candidates,
	)
	require.Len(t, chains, 2)

	assert.Equal(t, "A", chains[0].OptionLetter)
	assert.Equal(t, "carburetor heat", chains[0].OptionText)
	assert.Equal(t, domain.EvidenceExplicit, chains[0].EvidenceType,
		"verbatim match in a high-scoring candidate is explicit")
	require.NotEmpty(t, chains[0].Sources)
	assert.Equal(t, 12, chains[0].Sources[0].Page)
}

func TestEvidenceChainBuilder_AbsentWhenNothingMatches(t *testing.T) {
	builder := usecase.NewEvidenceChainBuilder(usecase.DefaultEvidenceConfig())

	chains := builder.Build(
		"What prevents carburetor icing?",
		[]string{"A. hydraulic accumulator recharge"},
		[]domain.SearchCandidate{
			{Page: 3, Text: "Weather minimums are listed in the appendix.", Score: 20},
		},
	)
	require.Len(t, chains, 1)
	assert.Equal(t, domain.EvidenceAbsent, chains[0].EvidenceType)
	assert.Empty(t, chains[0].Sources)
}

func TestEvidenceChainBuilder_NegationOverridesScore(t *testing.T) {
	builder := usecase.NewEvidenceChainBuilder(usecase.DefaultEvidenceConfig())

	chains := builder.Build(
		"How is the fuel delivered?",
		[]string{"A. electric fuel pump"},
		[]domain.SearchCandidate{
			{Page: 7, Text: "This aircraft does not use an electric fuel pump; fuel is gravity fed.", Score: 85},
		},
	)
	require.Len(t, chains, 1)
	assert.Equal(t, domain.EvidenceContradicted, chains[0].EvidenceType,
		"a negated mention beats any score-based classification")
}

func TestEvidenceChainBuilder_SourcesSortedAndCapped(t *testing.T) {
	cfg := usecase.DefaultEvidenceConfig()
	builder := usecase.NewEvidenceChainBuilder(cfg)

	candidates := []domain.SearchCandidate{
		{Page: 1, Text: "carburetor heat", Score: 90},
		{Page: 2, Text: "carburetor heat is applied before descent", Score: 90},
		{Page: 3, Text: "use carburetor heat during icing conditions", Score: 90},
		{Page: 4, Text: "the carburetor heat control is on the panel", Score: 90},
		{Page: 5, Text: "pull carburetor heat fully out", Score: 90},
	}

	chains := builder.Build("When is carburetor heat used?", []string{"A. carburetor heat"}, candidates)
	require.Len(t, chains, 1)

	sources := chains[0].Sources
	assert.LessOrEqual(t, len(sources), cfg.MaxSources)
	for i := 1; i < len(sources); i++ {
		assert.GreaterOrEqual(t, sources[i-1].Confidence, sources[i].Confidence)
	}
}

func TestEvidenceChainBuilder_ExcerptKeepsRuneBoundary(t *testing.T) {
	builder := usecase.NewEvidenceChainBuilder(usecase.DefaultEvidenceConfig())

	// Multibyte text long enough that the excerpt cut lands mid-rune unless
	// it backs up to a boundary.
	text := "carburetor heat 気化器の加熱は" + strings.Repeat("氷", 100)
	chains := builder.Build(
		"What prevents icing?",
		[]string{"A. carburetor heat"},
		[]domain.SearchCandidate{{Page: 9, Text: text, Score: 90}},
	)
	require.Len(t, chains, 1)
	require.NotEmpty(t, chains[0].Sources)
	assert.True(t, utf8.ValidString(chains[0].Sources[0].Excerpt))
}

func TestCleanOption(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"A. carburetor heat", "carburetor heat"},
		{"b) mixture control", "mixture control"},
		{"  C.   primer  ", "primer"},
		{"no marker here", "no marker here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, usecase.CleanOption(tt.input))
	}
}
