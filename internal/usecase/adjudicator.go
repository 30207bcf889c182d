package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// negativeQuestionPattern detects questions that ask for the wrong/odd-one-out
// option; those are ranked by contradiction, not entailment.
var negativeQuestionPattern = regexp.MustCompile(
	`(?i)\b(?:not|except|false|incorrect|unlikely)\b`)

var noneOptionPattern = regexp.MustCompile(
	`(?i)\bnone of (?:the above|these)\b|\bnot listed\b`)

// AdjudicationResult is the outcome of judging one multiple-choice question.
type AdjudicationResult struct {
	BestIndex   int
	BestLetter  string
	BestOption  string
	Confidence  float64
	Explanation string
	Evidence    string
	Pages       []int
	IsAmbiguous bool
	Swapped     bool
}

// Adjudicator runs pairwise entailment/contradiction judging per option,
// applies negative-logic and tie-breaking rules, and falls back safely when
// evidence is weak.
type Adjudicator struct {
	judge  domain.EntailmentJudge
	index  domain.DocumentIndex
	cfg    AdjudicatorConfig
	logger *slog.Logger
}

// NewAdjudicator creates an adjudicator over the given judge and index.
func NewAdjudicator(judge domain.EntailmentJudge, index domain.DocumentIndex, cfg AdjudicatorConfig, logger *slog.Logger) *Adjudicator {
	return &Adjudicator{judge: judge, index: index, cfg: cfg, logger: logger}
}

type optionJudgment struct {
	index          int
	option         string
	rankScore      float64
	entailment     float64
	contradiction  float64
	evidence       string
	evidencePage   int
	keywordMatches int
	isNone         bool
}

// JudgeBasic judges every option against a fixed best-context window taken
// from the top candidates.
func (a *Adjudicator) JudgeBasic(ctx context.Context, question string, options []string, candidates []domain.SearchCandidate) (*AdjudicationResult, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options to adjudicate")
	}

	sorted := append([]domain.SearchCandidate(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	window := sorted
	if len(window) > a.cfg.BestContextWindow {
		window = window[:a.cfg.BestContextWindow]
	}

	var premiseParts []string
	premisePage := 0
	for _, cand := range window {
		premiseParts = append(premiseParts, cand.Text)
		if premisePage == 0 {
			premisePage = cand.Page
		}
	}
	premise := strings.Join(premiseParts, "\n")
	negative := IsNegativeQuestion(question)

	judgments := make([]optionJudgment, 0, len(options))
	for i, option := range options {
		clean := CleanOption(option)
		j := optionJudgment{
			index:        i,
			option:       clean,
			evidence:     premise,
			evidencePage: premisePage,
			isNone:       IsNoneOption(option),
		}
		verdict, err := a.judge.Judge(ctx, premise, question+" "+clean)
		if err != nil {
			a.logger.Warn("nli_judge_failed",
				slog.String("option", clean),
				slog.String("error", err.Error()))
		} else {
			j.entailment = verdict.Scores.Entailment
			j.contradiction = verdict.Scores.Contradiction
		}
		if negative {
			j.rankScore = j.contradiction
		} else {
			j.rankScore = j.entailment
		}
		judgments = append(judgments, j)
	}

	return a.resolve(question, options, judgments, negative, false), nil
}

// JudgeAdversarial runs the stronger per-option evidence matrix: each option
// gets a targeted search query, a relevance-penalized entailment score, and
// a keyword-density tie-break.
func (a *Adjudicator) JudgeAdversarial(ctx context.Context, question string, options []string, analysis QuestionAnalysis, filterPages []int) (*AdjudicationResult, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("no options to adjudicate")
	}

	subjectKeywords := analysis.Intent.KeyTerms
	if len(subjectKeywords) == 0 {
		subjectKeywords = domain.KeyTerms(question, 6)
	}
	negative := IsNegativeQuestion(question)

	judgments := make([]optionJudgment, 0, len(options))
	for i, option := range options {
		clean := CleanOption(option)
		j := optionJudgment{index: i, option: clean, isNone: IsNoneOption(option)}

		optionKeywords := domain.KeyTerms(clean, 0)
		query := buildTargetedQuery(subjectKeywords, optionKeywords, j.isNone)

		hits, err := a.index.Search(ctx, query, filterPages)
		if err != nil {
			a.logger.Warn("adversarial_search_failed",
				slog.String("option", clean),
				slog.String("error", err.Error()))
			hits = nil
		}

		premise, page := joinTopHits(hits, a.cfg.BestContextWindow)
		j.evidence = premise
		j.evidencePage = page

		if premise != "" {
			verdict, err := a.judge.Judge(ctx, premise, question+" "+clean)
			if err != nil {
				a.logger.Warn("nli_judge_failed",
					slog.String("option", clean),
					slog.String("error", err.Error()))
			} else {
				j.entailment = verdict.Scores.Entailment
				j.contradiction = verdict.Scores.Contradiction
			}
		}

		// Soft relevance penalty: only when not a single subject keyword
		// shows up in the evidence. One rare keyword match is enough to
		// avoid it.
		if countLiteralMatches(subjectKeywords, j.evidence) == 0 {
			j.entailment *= a.cfg.RelevancePenalty
		}
		j.keywordMatches = countLiteralMatches(optionKeywords, j.evidence)

		if negative {
			j.rankScore = j.contradiction
		} else {
			j.rankScore = j.entailment
		}
		judgments = append(judgments, j)
	}

	result := a.resolve(question, options, judgments, negative, true)

	if analysis.Intent.IsTrickQuestion {
		result = a.enforceTrickGuard(result, options, judgments, analysis.Intent.ContradictoryTerms)
	}
	return result, nil
}

// resolve ranks judgments, applies the ambiguity guard, tie-break, and
// safety net, and formats the explanation with a trimmed citation.
func (a *Adjudicator) resolve(question string, options []string, judgments []optionJudgment, negative, adversarial bool) *AdjudicationResult {
	ranked := append([]optionJudgment(nil), judgments...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].rankScore > ranked[j].rankScore })

	winner := ranked[0]
	var runnerUp *optionJudgment
	if len(ranked) > 1 {
		runnerUp = &ranked[1]
	}

	swapped := false
	var swapRationale string
	if adversarial && runnerUp != nil &&
		winner.rankScore-runnerUp.rankScore < a.cfg.TieWindow &&
		runnerUp.keywordMatches-winner.keywordMatches > 1 {
		swapRationale = fmt.Sprintf(
			"tie-break: option %s matched %d of its own keywords in evidence vs %d for option %s",
			letterFor(options, runnerUp.index), runnerUp.keywordMatches,
			winner.keywordMatches, letterFor(options, winner.index))
		winner, runnerUp = *runnerUp, &ranked[0]
		swapped = true
		a.logger.Info("adjudication_swapped_winner", slog.String("rationale", swapRationale))
	}

	noneIdx := findNoneOption(judgments)
	threshold := a.cfg.ConfidenceThreshold
	if noneIdx >= 0 {
		threshold = a.cfg.NoneOptionThreshold
	}

	ambiguous := false
	confidence := winner.rankScore
	explanation := rankingExplanation(negative)

	margin := 1.0
	if runnerUp != nil {
		margin = winner.rankScore - runnerUp.rankScore
	}

	// A swap inside the tie window is a deliberate resolution: the margin
	// against the demoted leader is negative by construction and must not
	// re-open the ambiguity guard.
	if winner.rankScore < threshold || (!swapped && margin < a.cfg.AmbiguityMargin) {
		if noneIdx >= 0 && !winner.isNone {
			winner = judgments[noneIdx]
			confidence = a.cfg.NoneFallbackConfidence
			explanation = "no option cleared the evidence threshold; defaulting to the none option"
		} else {
			ambiguous = true
			explanation += " (low confidence, best guess)"
		}
	}

	// Final safety net for the adversarial path.
	if adversarial && confidence < a.cfg.SafetyNetThreshold && noneIdx >= 0 && !winner.isNone {
		winner = judgments[noneIdx]
		confidence = a.cfg.NoneFallbackConfidence
		ambiguous = false
		explanation = "all options scored below the safety threshold; defaulting to the none option"
	}

	if swapped && swapRationale != "" {
		explanation += "; " + swapRationale
	}
	if winner.evidence != "" {
		explanation += fmt.Sprintf(" | evidence: %q (p.%d)",
			excerpt(winner.evidence, a.cfg.CitationLimit), winner.evidencePage)
	}

	var pages []int
	if winner.evidencePage > 0 {
		pages = []int{winner.evidencePage}
	}

	return &AdjudicationResult{
		BestIndex:   winner.index,
		BestLetter:  letterFor(options, winner.index),
		BestOption:  winner.option,
		Confidence:  confidence,
		Explanation: explanation,
		Evidence:    winner.evidence,
		Pages:       pages,
		IsAmbiguous: ambiguous,
		Swapped:     swapped,
	}
}

// enforceTrickGuard handles analyzer-flagged trap questions: a non-none
// answer needs explicit-strength evidence that literally mentions the second
// (context) term; anything weaker forces the none option.
func (a *Adjudicator) enforceTrickGuard(result *AdjudicationResult, options []string, judgments []optionJudgment, terms [2]string) *AdjudicationResult {
	noneIdx := findNoneOption(judgments)
	if noneIdx < 0 {
		return result
	}
	if result.BestIndex == judgments[noneIdx].index {
		return result
	}

	contextTerm := strings.ToLower(terms[1])
	explicit := result.Confidence >= a.cfg.NoneOptionThreshold
	mentionsContext := contextTerm != "" &&
		strings.Contains(strings.ToLower(result.Evidence), contextTerm)

	if explicit && mentionsContext {
		return result
	}

	none := judgments[noneIdx]
	a.logger.Info("trick_question_forced_none",
		slog.String("context_term", terms[1]),
		slog.Bool("explicit_evidence", explicit),
		slog.Bool("context_term_present", mentionsContext))
	return &AdjudicationResult{
		BestIndex:  none.index,
		BestLetter: letterFor(options, none.index),
		BestOption: none.option,
		Confidence: a.cfg.TrickNoneConfidence,
		Explanation: fmt.Sprintf(
			"the question pairs %q with %q, which the document treats as mutually exclusive; no explicit evidence links them",
			terms[0], terms[1]),
		Evidence: none.evidence,
	}
}

// IsNegativeQuestion reports whether the question asks for the option the
// document does NOT support.
func IsNegativeQuestion(question string) bool {
	return negativeQuestionPattern.MatchString(question)
}

// IsNoneOption reports whether option text is a "none of the above" answer.
func IsNoneOption(option string) bool {
	return noneOptionPattern.MatchString(option)
}

func findNoneOption(judgments []optionJudgment) int {
	for i, j := range judgments {
		if j.isNone {
			return i
		}
	}
	return -1
}

func buildTargetedQuery(subjectKeywords, optionKeywords []string, isNone bool) string {
	if isNone {
		return strings.Join(subjectKeywords, " ")
	}
	seen := make(map[string]struct{}, len(subjectKeywords)+len(optionKeywords))
	var parts []string
	for _, kw := range append(append([]string(nil), subjectKeywords...), optionKeywords...) {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		parts = append(parts, kw)
	}
	return strings.Join(parts, " ")
}

func joinTopHits(hits []domain.SearchCandidate, limit int) (string, int) {
	if len(hits) == 0 {
		return "", 0
	}
	sorted := append([]domain.SearchCandidate(nil), hits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	var parts []string
	for _, hit := range sorted {
		parts = append(parts, hit.Text)
	}
	return strings.Join(parts, "\n"), sorted[0].Page
}

func countLiteralMatches(keywords []string, text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

func letterFor(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return optionLetter(options[index], index)
}

func rankingExplanation(negative bool) string {
	if negative {
		return "negated question: options ranked by contradiction against the document"
	}
	return "options ranked by entailment against the document"
}
