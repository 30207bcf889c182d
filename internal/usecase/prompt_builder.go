package usecase

import (
	"fmt"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Question     string
	QuestionType domain.QuestionType
	ContextText  string
	// History holds prior question/answer turns for follow-up questions.
	History []string
	// RegenerationPreamble, when set, is prepended for a stricter second
	// attempt after failed verification.
	RegenerationPreamble string
}

// PromptBuilder builds the generation prompt sent to the LLM.
type PromptBuilder interface {
	Build(input PromptInput) (string, error)
}

// GroundedPromptBuilder creates prompts that separate context, instructions,
// and question, and forbid answers from outside the context.
type GroundedPromptBuilder struct {
	additionalInstructions []string
}

// NewGroundedPromptBuilder creates a prompt builder with optional extra
// instructions appended.
func NewGroundedPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &GroundedPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the prompt text.
func (b *GroundedPromptBuilder) Build(input PromptInput) (string, error) {
	if strings.TrimSpace(input.Question) == "" {
		return "", fmt.Errorf("question is required")
	}
	if strings.TrimSpace(input.ContextText) == "" {
		return "", fmt.Errorf("context is required")
	}

	var sb strings.Builder
	if input.RegenerationPreamble != "" {
		sb.WriteString(input.RegenerationPreamble)
		sb.WriteString("\n")
	}

	sb.WriteString("You answer questions about a technical document using ONLY the context below.\n")
	instructions := []string{
		"Answer using strictly the facts from the context.",
		"Cite the page a fact comes from as (p.N) using the [Page N] markers.",
		"If the context does not contain the answer, say so plainly instead of guessing.",
		"Do not include external knowledge.",
	}
	for i, inst := range append(instructions, b.additionalInstructions...) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, inst)
	}

	if len(input.History) > 0 {
		sb.WriteString("\nPrior conversation:\n")
		for _, turn := range input.History {
			sb.WriteString(turn)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nContext:\n")
	sb.WriteString(input.ContextText)
	sb.WriteString("\n\nQuestion (")
	sb.WriteString(string(input.QuestionType))
	sb.WriteString("): ")
	sb.WriteString(input.Question)
	sb.WriteString("\n\nAnswer:")
	return sb.String(), nil
}
