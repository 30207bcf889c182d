package usecase

import (
	"fmt"
	"time"
)

// AnalyzerConfig holds question-analysis settings.
type AnalyzerConfig struct {
	// MechanismOverride forces the mechanism question type whenever the
	// question carries mechanism-indicator phrasing, regardless of pattern
	// scores. High-precision behavior for troubleshooting manuals.
	MechanismOverride bool
	// ContradictoryPairs lists term pairs the analyzer treats as mutually
	// exclusive when flagging trick questions.
	ContradictoryPairs [][2]string
	// MaxKeyTerms caps the key terms extracted per question.
	MaxKeyTerms int
}

// DefaultAnalyzerConfig returns the mechanical-manual defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MechanismOverride: true,
		ContradictoryPairs: [][2]string{
			{"diesel", "spark"},
			{"carburetor", "injection"},
			{"glider", "engine"},
			{"manual", "automatic"},
		},
		MaxKeyTerms: 6,
	}
}

// Validate checks analyzer settings.
func (c AnalyzerConfig) Validate() error {
	if c.MaxKeyTerms <= 0 {
		return fmt.Errorf("analyzer maxKeyTerms must be positive, got %d", c.MaxKeyTerms)
	}
	return nil
}

// RetrieverConfig holds tunable parameters for context retrieval.
type RetrieverConfig struct {
	// TopPages is the number of expanded pages selected by aggregate score.
	TopPages int
	// NeighborSpan is how many adjacent pages are pulled in per scored page.
	NeighborSpan int
	// NeighborScoreFactor is the fraction of a page's aggregate score its
	// neighbors inherit, keeping direct hits ranked first.
	NeighborScoreFactor float64
	// SnippetsPerSubQuestion bounds the fallback snippets taken per sub-question.
	SnippetsPerSubQuestion int
	// SnippetFallbackLimit bounds the total fallback snippets.
	SnippetFallbackLimit int
	// DiagnosticBoost multiplies a page's score when problem and symptom
	// terms co-occur on it for diagnostic questions.
	DiagnosticBoost float64
	// ProblemTerms and SymptomTerms are the co-occurrence term sets; any two
	// domain vocabularies may be substituted.
	ProblemTerms []string
	SymptomTerms []string
}

// DefaultRetrieverConfig returns defaults sized for manual-style documents.
func DefaultRetrieverConfig() RetrieverConfig {
	return RetrieverConfig{
		TopPages:               5,
		NeighborSpan:           1,
		NeighborScoreFactor:    0.5,
		SnippetsPerSubQuestion: 3,
		SnippetFallbackLimit:   20,
		DiagnosticBoost:        3.0,
		ProblemTerms: []string{
			"failure", "malfunction", "blockage", "leak", "contamination",
			"icing", "wear", "fault",
		},
		SymptomTerms: []string{
			"rough", "loss", "drop", "vibration", "noise", "smoke",
			"overheat", "stall", "fluctuation",
		},
	}
}

// Validate checks retriever settings.
func (c RetrieverConfig) Validate() error {
	if c.TopPages <= 0 {
		return fmt.Errorf("retriever topPages must be positive, got %d", c.TopPages)
	}
	if c.NeighborSpan < 0 {
		return fmt.Errorf("retriever neighborSpan must be non-negative, got %d", c.NeighborSpan)
	}
	if c.DiagnosticBoost < 1 {
		return fmt.Errorf("retriever diagnosticBoost must be >= 1, got %f", c.DiagnosticBoost)
	}
	return nil
}

// EvidenceConfig holds evidence-chain scoring parameters. The boost values
// are empirically tuned; they are configuration rather than literals so the
// tuning history stays visible.
type EvidenceConfig struct {
	SemanticWeight float64
	LexicalWeight  float64
	// VerbatimBoost applies when the option text appears verbatim in a
	// candidate that also clears ContextualScoreFloor on its own.
	VerbatimBoost float64
	// WeakVerbatimBoost applies to verbatim matches without contextual
	// confirmation, avoiding false positives from off-topic phrase collisions.
	WeakVerbatimBoost    float64
	ContextualScoreFloor float64
	ExplicitThreshold    float64
	ImpliedThreshold     float64
	MaxSources           int
}

// DefaultEvidenceConfig returns the tuned defaults.
func DefaultEvidenceConfig() EvidenceConfig {
	return EvidenceConfig{
		SemanticWeight:       0.4,
		LexicalWeight:        0.6,
		VerbatimBoost:        0.5,
		WeakVerbatimBoost:    0.2,
		ContextualScoreFloor: 50,
		ExplicitThreshold:    0.7,
		ImpliedThreshold:     0.4,
		MaxSources:           3,
	}
}

// Validate checks evidence settings.
func (c EvidenceConfig) Validate() error {
	if c.SemanticWeight < 0 || c.LexicalWeight < 0 {
		return fmt.Errorf("evidence weights must be non-negative")
	}
	if c.ExplicitThreshold <= c.ImpliedThreshold {
		return fmt.Errorf("evidence explicitThreshold (%f) must exceed impliedThreshold (%f)",
			c.ExplicitThreshold, c.ImpliedThreshold)
	}
	if c.MaxSources <= 0 {
		return fmt.Errorf("evidence maxSources must be positive, got %d", c.MaxSources)
	}
	return nil
}

// AdjudicatorConfig holds NLI adjudication parameters.
type AdjudicatorConfig struct {
	// ConfidenceThreshold guards the winner when no "none of the above"
	// option exists; NoneOptionThreshold applies when one does.
	ConfidenceThreshold float64
	NoneOptionThreshold float64
	// AmbiguityMargin is the minimum winner-to-runner-up gap.
	AmbiguityMargin float64
	// RelevancePenalty scales entailment when no subject keyword appears in
	// the retrieved evidence. Deliberately soft: a single keyword match is
	// enough to avoid it.
	RelevancePenalty float64
	// TieWindow is the score gap within which keyword density breaks ties.
	TieWindow float64
	// SafetyNetThreshold triggers the none-option override.
	SafetyNetThreshold     float64
	NoneFallbackConfidence float64
	TrickNoneConfidence    float64
	// CitationLimit bounds the evidence excerpt appended to explanations.
	CitationLimit int
	// BestContextWindow is how many top candidates form the basic judge's
	// fixed premise.
	BestContextWindow int
}

// DefaultAdjudicatorConfig returns the tuned defaults.
func DefaultAdjudicatorConfig() AdjudicatorConfig {
	return AdjudicatorConfig{
		ConfidenceThreshold:    0.5,
		NoneOptionThreshold:    0.75,
		AmbiguityMargin:        0.05,
		RelevancePenalty:       0.7,
		TieWindow:              0.10,
		SafetyNetThreshold:     0.4,
		NoneFallbackConfidence: 0.85,
		TrickNoneConfidence:    0.95,
		CitationLimit:          180,
		BestContextWindow:      3,
	}
}

// Validate checks adjudicator settings.
func (c AdjudicatorConfig) Validate() error {
	if c.NoneOptionThreshold < c.ConfidenceThreshold {
		return fmt.Errorf("adjudicator noneOptionThreshold (%f) must be >= confidenceThreshold (%f)",
			c.NoneOptionThreshold, c.ConfidenceThreshold)
	}
	if c.RelevancePenalty <= 0 || c.RelevancePenalty > 1 {
		return fmt.Errorf("adjudicator relevancePenalty must be in (0, 1], got %f", c.RelevancePenalty)
	}
	if c.CitationLimit <= 0 {
		return fmt.Errorf("adjudicator citationLimit must be positive, got %d", c.CitationLimit)
	}
	return nil
}

// VerifierConfig holds answer-verification parameters.
type VerifierConfig struct {
	// SupportThreshold is the minimum blended score for a claim to count as
	// supported.
	SupportThreshold float64
	// RegenerateBelow triggers regeneration when overall confidence falls
	// under it and unsupported claims exist.
	RegenerateBelow float64
	// MinClaimLength drops sentence fragments below this many characters.
	MinClaimLength int
}

// DefaultVerifierConfig returns the defaults.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		SupportThreshold: 0.4,
		RegenerateBelow:  0.6,
		MinClaimLength:   10,
	}
}

// Validate checks verifier settings.
func (c VerifierConfig) Validate() error {
	if c.SupportThreshold <= 0 || c.SupportThreshold >= 1 {
		return fmt.Errorf("verifier supportThreshold must be in (0, 1), got %f", c.SupportThreshold)
	}
	if c.MinClaimLength <= 0 {
		return fmt.Errorf("verifier minClaimLength must be positive, got %d", c.MinClaimLength)
	}
	return nil
}

// PipelineConfig aggregates the tunables for one orchestrator instance.
type PipelineConfig struct {
	Analyzer    AnalyzerConfig
	Retriever   RetrieverConfig
	Evidence    EvidenceConfig
	Adjudicator AdjudicatorConfig
	Verifier    VerifierConfig

	// MaxSubQuestions caps decomposition output.
	MaxSubQuestions int
	// MinContextChars short-circuits generation when the assembled context
	// is shorter.
	MinContextChars int
	// HistoryContextChars bounds how much of the prior turn's context is
	// prepended on history opt-in, so a long session cannot crowd out fresh
	// retrieval.
	HistoryContextChars int
	// GenerationTimeout is the hard cap on one generation call.
	GenerationTimeout time.Duration
	// AnswerMaxTokens bounds open-ended generation.
	AnswerMaxTokens int
}

// DefaultPipelineConfig returns defaults for all stages.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Analyzer:            DefaultAnalyzerConfig(),
		Retriever:           DefaultRetrieverConfig(),
		Evidence:            DefaultEvidenceConfig(),
		Adjudicator:         DefaultAdjudicatorConfig(),
		Verifier:            DefaultVerifierConfig(),
		MaxSubQuestions:     15,
		MinContextChars:     50,
		HistoryContextChars: 2000,
		GenerationTimeout:   60 * time.Second,
		AnswerMaxTokens:     768,
	}
}

// Validate checks every stage configuration.
func (c PipelineConfig) Validate() error {
	if c.MaxSubQuestions <= 0 {
		return fmt.Errorf("maxSubQuestions must be positive, got %d", c.MaxSubQuestions)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("generationTimeout must be positive, got %v", c.GenerationTimeout)
	}
	if err := c.Analyzer.Validate(); err != nil {
		return fmt.Errorf("analyzer config invalid: %w", err)
	}
	if err := c.Retriever.Validate(); err != nil {
		return fmt.Errorf("retriever config invalid: %w", err)
	}
	if err := c.Evidence.Validate(); err != nil {
		return fmt.Errorf("evidence config invalid: %w", err)
	}
	if err := c.Adjudicator.Validate(); err != nil {
		return fmt.Errorf("adjudicator config invalid: %w", err)
	}
	if err := c.Verifier.Validate(); err != nil {
		return fmt.Errorf("verifier config invalid: %w", err)
	}
	return nil
}
