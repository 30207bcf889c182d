package domain_test

import (
	"testing"

	"docqa-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassifySection(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedType domain.SectionType
	}{
		{
			name:         "warning section",
			text:         "WARNING: Do not exceed the maximum engine RPM during descent.",
			expectedType: domain.SectionWarning,
		},
		{
			name:         "procedure section",
			text:         "Step 1: pull the carburetor heat control. Then, reduce power and check the gauges.",
			expectedType: domain.SectionProcedure,
		},
		{
			name:         "glossary section",
			text:         "Carburetor icing is defined as ice formation in the venturi. The term detonation means the explosive burning of fuel.",
			expectedType: domain.SectionGlossary,
		},
		{
			name:         "table section",
			text:         "Table 3 lists the recommended power settings. | RPM | Manifold pressure |",
			expectedType: domain.SectionTable,
		},
		{
			name:         "formula section",
			text:         "Density altitude is calculated as pressure altitude corrected for temperature, P = nRT over V.",
			expectedType: domain.SectionFormula,
		},
		{
			name:         "no indicators yields unknown",
			text:         "The quick brown fox jumps over the lazy dog.",
			expectedType: domain.SectionUnknown,
		},
		{
			name:         "empty text yields unknown",
			text:         "",
			expectedType: domain.SectionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ClassifySection(tt.text)
			assert.Equal(t, tt.expectedType, got.Type)
		})
	}
}

func TestClassifySection_Confidence(t *testing.T) {
	// Two warning indicators out of three needed for full confidence.
	got := domain.ClassifySection("WARNING: Do not operate the pump dry.")
	assert.Equal(t, domain.SectionWarning, got.Type)
	assert.InDelta(t, 2.0/3.0, got.Confidence, 1e-9)
	assert.Len(t, got.MatchedIndicators, 2)

	// Many matches cap at 1.
	strong := domain.ClassifySection(
		"WARNING: Caution! Danger! Do not touch. Never operate without shields. You must not bypass the guard.")
	assert.Equal(t, domain.SectionWarning, strong.Type)
	assert.Equal(t, 1.0, strong.Confidence)
}

func TestClassifySection_Deterministic(t *testing.T) {
	text := "Step 1: check the fuel. WARNING: do not smoke. For example, use the dipstick."
	first := domain.ClassifySection(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, domain.ClassifySection(text))
	}
}

func TestClassifySection_TieBrokenByDeclarationOrder(t *testing.T) {
	// One explanation indicator and one glossary indicator: the earlier
	// ruleset wins the tie.
	got := domain.ClassifySection("In other words, the mixture control refers to fuel ratio adjustment.")
	assert.Equal(t, domain.SectionExplanation, got.Type)
}

func TestSectionBoost(t *testing.T) {
	assert.Equal(t, 1.3, domain.SectionBoost(domain.SectionProcedure))
	assert.Equal(t, 0.8, domain.SectionBoost(domain.SectionUnknown))
	// Unrecognized type falls back to the unknown boost.
	assert.Equal(t, 0.8, domain.SectionBoost(domain.SectionType("bogus")))
	// Every boost favors prose the reader can answer from.
	assert.Greater(t, domain.SectionBoost(domain.SectionExplanation), domain.SectionBoost(domain.SectionReference))
}
