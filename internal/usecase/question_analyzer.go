package usecase

import (
	"regexp"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// IntentAnalysis is the generic intent/key-term view of a question, computed
// before type classification.
type IntentAnalysis struct {
	Intent             domain.QuestionType
	KeyTerms           []string
	IsTrickQuestion    bool
	ContradictoryTerms [2]string
}

// SearchStrategy is the static retrieval recipe for one question type.
type SearchStrategy struct {
	PrioritySections []domain.SectionType
	ExpandContext    bool
	Decompose        bool
	RequireEvidence  bool
	Verify           bool
	MaxChunks        int
}

// QuestionAnalysis is the full analyzer output for one question.
type QuestionAnalysis struct {
	Type     domain.QuestionType
	Intent   IntentAnalysis
	Strategy SearchStrategy
}

type typePatterns struct {
	questionType domain.QuestionType
	patterns     []*regexp.Regexp
}

// questionTypeRules is evaluated in declaration order; the order breaks
// score ties between types.
var questionTypeRules = []typePatterns{
	{domain.QuestionFactual, compilePatterns(
		`(?i)^(?:what|which|who|when|where)\b`,
		`(?i)\bhow (?:many|much|long|far|high|fast)\b`,
		`(?i)\bis located\b`,
	)},
	{domain.QuestionProcedural, compilePatterns(
		`(?i)\bhow (?:do|to|should|can) (?:i|you|we|one)?\b`,
		`(?i)\bsteps?\b`,
		`(?i)\bprocedure\b`,
		`(?i)\bperform\b`,
	)},
	{domain.QuestionComparative, compilePatterns(
		`(?i)\bdifference between\b`,
		`(?i)\bcompared? (?:to|with)\b`,
		`(?i)\b(?:better|worse|more|less) than\b`,
		`(?i)\bversus\b|\bvs\.?\b`,
	)},
	{domain.QuestionCausal, compilePatterns(
		`(?i)\bwhy\b`,
		`(?i)\bwhat causes?\b`,
		`(?i)\bbecause\b`,
		`(?i)\bleads? to\b`,
	)},
	{domain.QuestionDefinitional, compilePatterns(
		`(?i)\bwhat is (?:a|an|the)?\b`,
		`(?i)\bdefin(?:e|ition)\b`,
		`(?i)\bmean(?:ing)?s?\b`,
	)},
	{domain.QuestionEvaluative, compilePatterns(
		`(?i)\b(?:should|would it be)\b`,
		`(?i)\b(?:best|worst|most appropriate|recommended)\b`,
		`(?i)\badvantages?\b|\bdisadvantages?\b`,
	)},
	{domain.QuestionHypothetical, compilePatterns(
		`(?i)\bwhat (?:if|would happen)\b`,
		`(?i)\bif .+ (?:then|what|how)\b`,
		`(?i)\bsuppose\b`,
	)},
	{domain.QuestionEnumerative, compilePatterns(
		`(?i)\blist\b`,
		`(?i)\bwhat are the\b`,
		`(?i)\bname (?:all|the|three|some)\b`,
		`(?i)\btypes? of\b`,
	)},
	{domain.QuestionDiagnostic, compilePatterns(
		`(?i)\btroubleshoot\b`,
		`(?i)\bwhat(?:'s| is) wrong\b`,
		`(?i)\b(?:symptom|fault|failure|malfunction)s?\b`,
		`(?i)\bwhy (?:is|does) .+ (?:not working|failing|rough)\b`,
	)},
	{domain.QuestionMechanism, compilePatterns(
		`(?i)\bhow does .+ work\b`,
		`(?i)\bmechanism\b`,
		`(?i)\bfunctions? by\b`,
	)},
}

// mechanismIndicators trigger the high-precision mechanism override: phrasing
// that asks what a signal reveals rather than what something is.
var mechanismIndicators = regexp.MustCompile(
	`(?i)\b(?:detected by|indicates?|caused by|result of|sign of)\b`)

// searchStrategies is a static lookup table, not computed.
var searchStrategies = map[domain.QuestionType]SearchStrategy{
	domain.QuestionFactual: {
		PrioritySections: []domain.SectionType{domain.SectionTable, domain.SectionExplanation},
		ExpandContext:    false, Decompose: false, RequireEvidence: true, Verify: false, MaxChunks: 5,
	},
	domain.QuestionProcedural: {
		PrioritySections: []domain.SectionType{domain.SectionProcedure, domain.SectionWarning},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 8,
	},
	domain.QuestionComparative: {
		PrioritySections: []domain.SectionType{domain.SectionTable, domain.SectionExplanation},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 8,
	},
	domain.QuestionCausal: {
		PrioritySections: []domain.SectionType{domain.SectionExplanation, domain.SectionWarning},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 6,
	},
	domain.QuestionDefinitional: {
		PrioritySections: []domain.SectionType{domain.SectionGlossary, domain.SectionExplanation},
		ExpandContext:    false, Decompose: true, RequireEvidence: false, Verify: false, MaxChunks: 4,
	},
	domain.QuestionEvaluative: {
		PrioritySections: []domain.SectionType{domain.SectionSummary, domain.SectionExplanation},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 6,
	},
	domain.QuestionHypothetical: {
		PrioritySections: []domain.SectionType{domain.SectionExplanation, domain.SectionExample},
		ExpandContext:    true, Decompose: true, RequireEvidence: false, Verify: true, MaxChunks: 6,
	},
	domain.QuestionEnumerative: {
		PrioritySections: []domain.SectionType{domain.SectionTable, domain.SectionSummary},
		ExpandContext:    false, Decompose: false, RequireEvidence: true, Verify: false, MaxChunks: 6,
	},
	domain.QuestionDiagnostic: {
		PrioritySections: []domain.SectionType{domain.SectionProcedure, domain.SectionWarning, domain.SectionExplanation},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 8,
	},
	domain.QuestionMechanism: {
		PrioritySections: []domain.SectionType{domain.SectionExplanation, domain.SectionDiagram},
		ExpandContext:    true, Decompose: true, RequireEvidence: true, Verify: true, MaxChunks: 6,
	},
}

// QuestionAnalyzer classifies question intent and selects a search strategy.
type QuestionAnalyzer struct {
	cfg AnalyzerConfig
}

// NewQuestionAnalyzer creates an analyzer with the given configuration.
func NewQuestionAnalyzer(cfg AnalyzerConfig) *QuestionAnalyzer {
	return &QuestionAnalyzer{cfg: cfg}
}

// Analyze determines question intent, type, and the recommended search
// strategy. Pure; no side effects.
func (a *QuestionAnalyzer) Analyze(question string) QuestionAnalysis {
	intent := a.analyzeIntent(question)

	bestType := domain.QuestionFactual
	bestScore := -1
	for _, rule := range questionTypeRules {
		score := 0
		for _, p := range rule.patterns {
			if p.MatchString(question) {
				score++
			}
		}
		if rule.questionType == intent.Intent {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			bestType = rule.questionType
		}
	}

	// The mechanism override replaces the pattern-matched best type outright.
	if a.cfg.MechanismOverride && mechanismIndicators.MatchString(question) {
		bestType = domain.QuestionMechanism
	}

	return QuestionAnalysis{
		Type:     bestType,
		Intent:   intent,
		Strategy: searchStrategies[bestType],
	}
}

func (a *QuestionAnalyzer) analyzeIntent(question string) IntentAnalysis {
	analysis := IntentAnalysis{
		Intent:   a.roughIntent(question),
		KeyTerms: domain.KeyTerms(question, a.cfg.MaxKeyTerms),
	}

	lower := strings.ToLower(question)
	for _, pair := range a.cfg.ContradictoryPairs {
		if strings.Contains(lower, pair[0]) && strings.Contains(lower, pair[1]) {
			analysis.IsTrickQuestion = true
			analysis.ContradictoryTerms = pair
			break
		}
	}
	return analysis
}

func (a *QuestionAnalyzer) roughIntent(question string) domain.QuestionType {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "how does") && strings.Contains(lower, "work"):
		return domain.QuestionMechanism
	case strings.Contains(lower, "how do") || strings.Contains(lower, "how to") ||
		strings.Contains(lower, "steps"):
		return domain.QuestionProcedural
	case strings.Contains(lower, "difference") || strings.Contains(lower, " vs") ||
		strings.Contains(lower, "compare"):
		return domain.QuestionComparative
	case strings.Contains(lower, "why") || strings.Contains(lower, "cause"):
		return domain.QuestionCausal
	case strings.Contains(lower, "what is") || strings.Contains(lower, "define"):
		return domain.QuestionDefinitional
	case strings.Contains(lower, "symptom") || strings.Contains(lower, "wrong") ||
		strings.Contains(lower, "troubleshoot"):
		return domain.QuestionDiagnostic
	case strings.Contains(lower, "list") || strings.Contains(lower, "what are"):
		return domain.QuestionEnumerative
	default:
		return domain.QuestionFactual
	}
}

// Strategy returns the static search strategy for a question type.
func (a *QuestionAnalyzer) Strategy(t domain.QuestionType) SearchStrategy {
	return searchStrategies[t]
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}
