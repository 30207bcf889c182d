package domain

import "regexp"

// SectionType is a semantic category assigned to a text chunk to bias
// relevance scoring.
type SectionType string

const (
	SectionExplanation SectionType = "explanation"
	SectionGlossary    SectionType = "glossary"
	SectionTable       SectionType = "table"
	SectionDiagram     SectionType = "diagram"
	SectionProcedure   SectionType = "procedure"
	SectionFormula     SectionType = "formula"
	SectionWarning     SectionType = "warning"
	SectionExample     SectionType = "example"
	SectionSummary     SectionType = "summary"
	SectionReference   SectionType = "reference"
	SectionUnknown     SectionType = "unknown"
)

// SectionClassification is the result of classifying one text chunk.
// It is derived deterministically and recomputed per chunk.
type SectionClassification struct {
	Type              SectionType
	Confidence        float64
	MatchedIndicators []string
}

type sectionRule struct {
	sectionType SectionType
	indicators  []*regexp.Regexp
}

// sectionRules is evaluated in declaration order; the order also breaks
// score ties between section types.
var sectionRules = []sectionRule{
	{SectionExplanation, compileAll(
		`(?i)\bthis (?:means|occurs|happens) (?:that|because|when)\b`,
		`(?i)\bin other words\b`,
		`(?i)\bthe reason (?:for|is|that)\b`,
		`(?i)\bworks by\b`,
		`(?i)\bas a result\b`,
	)},
	{SectionGlossary, compileAll(
		`(?i)\bis defined as\b`,
		`(?i)\brefers to\b`,
		`(?i)\bglossary\b`,
		`(?i)\bdefinitions?\s*:`,
		`(?i)\bmeans the\b`,
	)},
	{SectionTable, compileAll(
		`(?i)\btable\s+\d+`,
		`\|[^|\n]+\|[^|\n]+\|`,
		`(?i)\bcolumns?\b.*\brows?\b`,
		`(?i)\bsee the (?:following|above) table\b`,
	)},
	{SectionDiagram, compileAll(
		`(?i)\bfigure\s+\d+`,
		`(?i)\bdiagram\b`,
		`(?i)\billustrat(?:es|ed|ion)\b`,
		`(?i)\bas shown (?:in|below|above)\b`,
	)},
	{SectionProcedure, compileAll(
		`(?i)\bstep\s+\d+`,
		`(?m)^\s*\d+\.\s`,
		`(?i)\b(?:first|next|then|finally),`,
		`(?i)\bprocedure\b`,
		`(?i)\bfollow(?:ing)? (?:these|the) steps\b`,
	)},
	{SectionFormula, compileAll(
		`(?i)\bformula\b`,
		`(?i)\bequation\b`,
		`[A-Za-z]\s*=\s*[A-Za-z0-9(]`,
		`(?i)\bcalculated (?:as|by|using)\b`,
	)},
	{SectionWarning, compileAll(
		`(?i)\bwarning\b`,
		`(?i)\bcaution\b`,
		`(?i)\bdanger\b`,
		`(?i)\bdo not\b`,
		`(?i)\bnever (?:attempt|operate|exceed)\b`,
		`(?i)\bmust not\b`,
	)},
	{SectionExample, compileAll(
		`(?i)\bfor example\b`,
		`(?i)\be\.g\.`,
		`(?i)\bsuch as\b`,
		`(?i)\bexample\s*\d*\s*:`,
	)},
	{SectionSummary, compileAll(
		`(?i)\bin summary\b`,
		`(?i)\bto summarize\b`,
		`(?i)\bkey points?\b`,
		`(?i)\boverview\b`,
		`(?i)\bin conclusion\b`,
	)},
	{SectionReference, compileAll(
		`(?i)\bsee (?:chapter|section|page|appendix)\b`,
		`(?i)\brefer to\b`,
		`(?i)\bas (?:described|discussed) in\b`,
		`(?i)\bbibliography\b`,
	)},
}

// sectionBoosts rescales a base relevance score per section type.
var sectionBoosts = map[SectionType]float64{
	SectionExplanation: 1.2,
	SectionGlossary:    1.15,
	SectionTable:       0.95,
	SectionDiagram:     0.9,
	SectionProcedure:   1.3,
	SectionFormula:     1.0,
	SectionWarning:     1.25,
	SectionExample:     1.1,
	SectionSummary:     1.05,
	SectionReference:   0.85,
	SectionUnknown:     0.8,
}

// ClassifySection tags a text chunk with a section type. Each matching
// indicator increments that type's score by one; the highest score wins with
// ties broken by declaration order. Confidence is min(1, score/3).
func ClassifySection(text string) SectionClassification {
	best := SectionClassification{Type: SectionUnknown, Confidence: 0}
	bestScore := 0

	for _, rule := range sectionRules {
		score := 0
		var matched []string
		for _, ind := range rule.indicators {
			if m := ind.FindString(text); m != "" {
				score++
				matched = append(matched, m)
			}
		}
		if score > bestScore {
			bestScore = score
			best = SectionClassification{
				Type:              rule.sectionType,
				Confidence:        minFloat(1, float64(score)/3),
				MatchedIndicators: matched,
			}
		}
	}

	return best
}

// SectionBoost returns the static relevance multiplier for a section type.
func SectionBoost(t SectionType) float64 {
	if boost, ok := sectionBoosts[t]; ok {
		return boost
	}
	return sectionBoosts[SectionUnknown]
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
