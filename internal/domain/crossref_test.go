package domain_test

import (
	"testing"

	"docqa-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestExtractCrossReferences(t *testing.T) {
	text := "See Chapter 3 for details. Figure 2-1 shows the fuel system. " +
		"Table 4 lists limits. Refer to Section 1.2. Chapter 3 covers this too."

	refs := domain.ExtractCrossReferences(text)

	assert.Equal(t, []domain.CrossReference{
		{Type: domain.CrossRefChapter, Reference: "3"},
		{Type: domain.CrossRefFigure, Reference: "2-1"},
		{Type: domain.CrossRefTable, Reference: "4"},
		{Type: domain.CrossRefSection, Reference: "1.2"},
	}, refs, "duplicates collapse, first-seen order per type")
}

func TestExtractCrossReferences_Empty(t *testing.T) {
	assert.Empty(t, domain.ExtractCrossReferences("No references here."))
	assert.Empty(t, domain.ExtractCrossReferences(""))
}
