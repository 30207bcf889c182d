package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"docqa-orchestrator/internal/domain"
)

// negationPattern finds negated phrasing inside a passage.
var negationPattern = regexp.MustCompile(
	`(?i)\b(?:not|never|cannot|won't|isn't|aren't|doesn't|don't)\b`)

// optionPrefixPattern strips a leading "A." / "B)" style marker.
var optionPrefixPattern = regexp.MustCompile(`^\s*([A-Ha-h])[.)]\s*`)

// EvidenceChainBuilder scores each multiple-choice option against retrieved
// candidates and classifies the strength and polarity of its support.
type EvidenceChainBuilder struct {
	cfg EvidenceConfig
}

// NewEvidenceChainBuilder creates a builder with the given scoring config.
func NewEvidenceChainBuilder(cfg EvidenceConfig) *EvidenceChainBuilder {
	return &EvidenceChainBuilder{cfg: cfg}
}

// Build creates one EvidenceChain per option, fresh per question.
func (b *EvidenceChainBuilder) Build(question string, options []string, candidates []domain.SearchCandidate) []domain.EvidenceChain {
	chains := make([]domain.EvidenceChain, 0, len(options))
	for i, option := range options {
		chains = append(chains, b.buildOne(question, option, optionLetter(option, i), candidates))
	}
	return chains
}

func (b *EvidenceChainBuilder) buildOne(question, option, letter string, candidates []domain.SearchCandidate) domain.EvidenceChain {
	cleanOpt := CleanOption(option)
	combined := question + " " + cleanOpt

	var sources []domain.EvidenceSource
	best := 0.0
	for _, cand := range candidates {
		score := b.cfg.SemanticWeight*domain.CosineSimilarity(combined, cand.Text) +
			b.cfg.LexicalWeight*domain.LexicalDetailScore(cleanOpt, cand.Text)

		if verbatimMatch(cleanOpt, cand.Text) {
			if cand.Score > b.cfg.ContextualScoreFloor {
				score += b.cfg.VerbatimBoost
			} else {
				score += b.cfg.WeakVerbatimBoost
			}
		}

		if score > best {
			best = score
		}
		if score >= b.cfg.ImpliedThreshold {
			sources = append(sources, domain.EvidenceSource{
				Page:       cand.Page,
				Excerpt:    excerpt(cand.Text, 200),
				Confidence: score,
			})
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Confidence > sources[j].Confidence
	})
	if len(sources) > b.cfg.MaxSources {
		sources = sources[:b.cfg.MaxSources]
	}

	evidenceType := domain.EvidenceAbsent
	switch {
	case len(sources) == 0:
		evidenceType = domain.EvidenceAbsent
	case best > b.cfg.ExplicitThreshold:
		evidenceType = domain.EvidenceExplicit
	case best > b.cfg.ImpliedThreshold:
		evidenceType = domain.EvidenceImplied
	}

	// Negated mentions of the option's key terms override the score-based
	// classification regardless of how well the option matched elsewhere.
	if hasNegatedMention(cleanOpt, candidates) {
		evidenceType = domain.EvidenceContradicted
	}

	return domain.EvidenceChain{
		OptionLetter: letter,
		OptionText:   cleanOpt,
		EvidenceType: evidenceType,
		Score:        best,
		Sources:      sources,
	}
}

// hasNegatedMention reports whether any candidate passage negates one of the
// option's key terms in the same passage.
func hasNegatedMention(option string, candidates []domain.SearchCandidate) bool {
	terms := domain.KeyTerms(option, 0)
	if len(terms) == 0 {
		return false
	}
	for _, cand := range candidates {
		if !negationPattern.MatchString(cand.Text) {
			continue
		}
		lower := strings.ToLower(cand.Text)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

func verbatimMatch(option, text string) bool {
	opt := strings.ToLower(strings.TrimSpace(option))
	if opt == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), opt)
}

// CleanOption strips a leading letter marker ("A.", "b)") from option text.
func CleanOption(option string) string {
	return strings.TrimSpace(optionPrefixPattern.ReplaceAllString(option, ""))
}

func optionLetter(option string, index int) string {
	if m := optionPrefixPattern.FindStringSubmatch(option); m != nil {
		return strings.ToUpper(m[1])
	}
	return string(rune('A' + index))
}

func excerpt(text string, limit int) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= limit {
		return trimmed
	}
	// Back the cut up to a rune boundary so citations stay valid UTF-8.
	cut := limit
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return strings.TrimSpace(trimmed[:cut]) + "..."
}
