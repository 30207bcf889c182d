package usecase_test

import (
	"strings"
	"testing"

	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionDecomposer_OriginalFirstUniqueAndCapped(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())
	decomposer := usecase.NewQuestionDecomposer(analyzer, 15)

	question := "Why does carburetor icing cause engine power loss?"
	subs := decomposer.Decompose(question)

	require.NotEmpty(t, subs)
	assert.Equal(t, question, subs[0].Question, "the original question always leads")
	assert.LessOrEqual(t, len(subs), 15)

	seen := make(map[string]struct{})
	for _, sq := range subs {
		key := strings.ToLower(strings.TrimSpace(sq.Question))
		_, dup := seen[key]
		assert.False(t, dup, "duplicate sub-question: %s", sq.Question)
		seen[key] = struct{}{}
		assert.NotEmpty(t, sq.ID)
	}
}

func TestQuestionDecomposer_CausalProbesTargetKeyTerms(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())
	decomposer := usecase.NewQuestionDecomposer(analyzer, 15)

	subs := decomposer.Decompose("Why does icing occur?")

	questions := make([]string, 0, len(subs))
	for _, sq := range subs {
		questions = append(questions, sq.Question)
	}
	assert.Contains(t, questions, "What is icing?")
	assert.Contains(t, questions, "How does the process work?")
}

func TestQuestionDecomposer_TrickProbes(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())
	decomposer := usecase.NewQuestionDecomposer(analyzer, 15)

	subs := decomposer.Decompose("Why does a diesel engine need spark plugs?")

	questions := make([]string, 0, len(subs))
	for _, sq := range subs {
		questions = append(questions, sq.Question)
	}
	assert.Contains(t, questions, "Are diesel and spark used together?")
	assert.Contains(t, questions, "Why is diesel not used in spark systems?")
}

func TestQuestionDecomposer_TightCap(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())
	decomposer := usecase.NewQuestionDecomposer(analyzer, 3)

	subs := decomposer.Decompose("Why does carburetor icing cause engine power loss?")
	assert.Len(t, subs, 3)
	assert.Equal(t, "Why does carburetor icing cause engine power loss?", subs[0].Question)
}

func TestQuestionDecomposer_FactualStaysSmall(t *testing.T) {
	analyzer := usecase.NewQuestionAnalyzer(usecase.DefaultAnalyzerConfig())
	decomposer := usecase.NewQuestionDecomposer(analyzer, 15)

	// Factual questions have no decomposition branch beyond the original.
	subs := decomposer.Decompose("What color is the fuel selector handle?")
	assert.Len(t, subs, 1)
}
