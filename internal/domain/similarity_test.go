package domain_test

import (
	"testing"

	"docqa-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestKeyTerms(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		max      int
		expected []string
	}{
		{
			name:     "stopwords and short tokens dropped",
			text:     "Why is the carburetor heat on?",
			max:      0,
			expected: []string{"carburetor", "heat"},
		},
		{
			name:     "deduplicated in first-seen order",
			text:     "engine oil engine coolant oil",
			max:      0,
			expected: []string{"engine", "oil", "coolant"},
		},
		{
			name:     "capped at max",
			text:     "magneto ignition impulse coupling starter motor",
			max:      3,
			expected: []string{"magneto", "ignition", "impulse"},
		},
		{
			name:     "empty text",
			text:     "",
			max:      0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.KeyTerms(tt.text, tt.max))
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, domain.CosineSimilarity("carburetor heat valve", "carburetor heat valve"), 1e-9)
	assert.Equal(t, 0.0, domain.CosineSimilarity("carburetor icing", "hydraulic brakes"))
	assert.Equal(t, 0.0, domain.CosineSimilarity("", "anything"))

	partial := domain.CosineSimilarity("carburetor heat", "carburetor icing")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

func TestLexicalDetailScore(t *testing.T) {
	assert.Equal(t, 1.0, domain.LexicalDetailScore(
		"carburetor heat", "Apply carburetor heat before reducing power."))
	assert.Equal(t, 0.0, domain.LexicalDetailScore(
		"hydraulic brakes", "Apply carburetor heat before reducing power."))
	assert.Equal(t, 0.0, domain.LexicalDetailScore("the of and", "anything"))

	// Longer terms weigh more than short ones.
	score := domain.LexicalDetailScore("carburetor ice", "The carburetor is clean.")
	assert.Greater(t, score, 0.5)
	assert.Less(t, score, 1.0)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"engine's", "rpm", "drops", "fast"},
		domain.Tokenize("Engine's RPM drops fast"))
	assert.Empty(t, domain.Tokenize("1234 5678"))
}
