package usecase

import (
	"fmt"
	"strings"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// QuestionDecomposer expands one question into an ordered, deduplicated list
// of sub-questions targeting distinct facets of the document.
type QuestionDecomposer struct {
	analyzer *QuestionAnalyzer
	maxSubs  int
}

// NewQuestionDecomposer creates a decomposer backed by the given analyzer.
func NewQuestionDecomposer(analyzer *QuestionAnalyzer, maxSubQuestions int) *QuestionDecomposer {
	return &QuestionDecomposer{analyzer: analyzer, maxSubs: maxSubQuestions}
}

// Decompose emits the original question first, then intent-conditioned
// probes. Output is deduplicated by lower-cased trimmed text and capped.
func (d *QuestionDecomposer) Decompose(question string) []domain.SubQuestion {
	analysis := d.analyzer.Analyze(question)
	return d.DecomposeWithAnalysis(question, analysis)
}

// DecomposeWithAnalysis reuses an existing analysis, avoiding a second
// classification pass in the orchestrator.
func (d *QuestionDecomposer) DecomposeWithAnalysis(question string, analysis QuestionAnalysis) []domain.SubQuestion {
	b := &subQuestionBuilder{
		seen: make(map[string]struct{}),
		max:  d.maxSubs,
	}
	b.add(question, analysis.Type)

	terms := analysis.Intent.KeyTerms

	if analysis.Intent.IsTrickQuestion {
		d.addTrickProbes(b, analysis.Intent.ContradictoryTerms)
	}

	switch analysis.Type {
	case domain.QuestionCausal, domain.QuestionMechanism:
		for _, term := range terms {
			b.add(fmt.Sprintf("What is %s?", term), domain.QuestionDefinitional)
			b.add(fmt.Sprintf("What are the characteristics of %s?", term), domain.QuestionDefinitional)
		}
		for i := 0; i+1 < len(terms); i++ {
			b.add(fmt.Sprintf("What is the relationship between %s and %s?", terms[i], terms[i+1]), domain.QuestionCausal)
			b.add(fmt.Sprintf("What is the difference between %s and %s?", terms[i], terms[i+1]), domain.QuestionComparative)
		}
		b.add("How does the process work?", domain.QuestionMechanism)
		b.add("What happens during the process?", domain.QuestionMechanism)

	case domain.QuestionProcedural:
		b.add(fmt.Sprintf("What are the steps to %s?", strings.TrimRight(question, "?")), domain.QuestionProcedural)
		b.add("What tools or equipment are required?", domain.QuestionProcedural)
		b.add("What precautions must be taken?", domain.QuestionProcedural)

	case domain.QuestionComparative:
		if len(terms) >= 2 {
			for _, term := range terms {
				b.add(fmt.Sprintf("What is %s?", term), domain.QuestionDefinitional)
				b.add(fmt.Sprintf("What are the features of %s?", term), domain.QuestionDefinitional)
			}
			b.add(fmt.Sprintf("What are the differences and similarities between %s and %s?", terms[0], terms[1]), domain.QuestionComparative)
			for _, term := range terms {
				b.add(fmt.Sprintf("What are the advantages and disadvantages of %s?", term), domain.QuestionEvaluative)
			}
		}

	case domain.QuestionDiagnostic:
		for _, term := range terms {
			b.add(fmt.Sprintf("What is %s?", term), domain.QuestionDefinitional)
			b.add(fmt.Sprintf("What are the symptoms of %s?", term), domain.QuestionDiagnostic)
			b.add(fmt.Sprintf("What causes %s?", term), domain.QuestionCausal)
			b.add(fmt.Sprintf("How is %s detected?", term), domain.QuestionProcedural)
		}

	case domain.QuestionDefinitional:
		for _, term := range terms {
			b.add(fmt.Sprintf("Explain %s in detail", term), domain.QuestionDefinitional)
			b.add(fmt.Sprintf("What is the purpose of %s?", term), domain.QuestionDefinitional)
		}
	}

	return b.subQuestions
}

// addTrickProbes targets trap questions pairing two mutually exclusive
// terms: the probes are phrased to surface "none of the above" evidence.
func (d *QuestionDecomposer) addTrickProbes(b *subQuestionBuilder, pair [2]string) {
	term1, term2 := pair[0], pair[1]
	b.add(fmt.Sprintf("What is %s?", term1), domain.QuestionDefinitional)
	b.add(fmt.Sprintf("What is %s?", term2), domain.QuestionDefinitional)
	b.add(fmt.Sprintf("Why is %s necessary?", term1), domain.QuestionCausal)
	b.add(fmt.Sprintf("How does %s work?", term2), domain.QuestionMechanism)
	b.add(fmt.Sprintf("Are %s and %s used together?", term1, term2), domain.QuestionFactual)
	b.add(fmt.Sprintf("What replaces %s in %s systems?", term1, term2), domain.QuestionFactual)
	b.add(fmt.Sprintf("Why is %s not used in %s systems?", term1, term2), domain.QuestionCausal)
}

type subQuestionBuilder struct {
	subQuestions []domain.SubQuestion
	seen         map[string]struct{}
	max          int
}

func (b *subQuestionBuilder) add(question string, t domain.QuestionType) {
	if len(b.subQuestions) >= b.max {
		return
	}
	key := strings.ToLower(strings.TrimSpace(question))
	if key == "" {
		return
	}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.subQuestions = append(b.subQuestions, domain.SubQuestion{
		ID:       uuid.NewString(),
		Question: strings.TrimSpace(question),
		Type:     t,
	})
}
