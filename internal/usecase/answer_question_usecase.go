package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

// AnswerQuestionInput encapsulates one question-answering request.
type AnswerQuestionInput struct {
	Question string
	// Options, when non-empty, switches to multiple-choice adjudication.
	Options []string
	// FilterPages restricts retrieval to the given pages.
	FilterPages []int
	// SessionID keys the per-session context cache.
	SessionID string
	// UseHistory prepends the cached prior turn for follow-up questions.
	UseHistory bool
}

// AnswerQuestionOutput is the normalized answer returned to callers.
type AnswerQuestionOutput struct {
	Answer          string
	Explanation     string
	Confidence      float64
	Evidence        string
	Pages           []int
	SubQuestions    []domain.SubQuestion
	EvidenceChains  []domain.EvidenceChain
	CrossReferences []domain.CrossReference
	ThinkingSteps   []ThinkingStep
	Verified        bool
	Verification    *domain.VerificationResult
}

// ThinkingStep is one progress entry surfaced to clients.
type ThinkingStep struct {
	Label  string
	Status string
	Detail string
}

// ProgressSink receives pipeline progress as it happens. Implementations
// must be fast; they are called inline.
type ProgressSink interface {
	OnStep(label, status, detail string)
}

type nopProgressSink struct{}

func (nopProgressSink) OnStep(string, string, string) {}

// AnswerQuestionUsecase defines the contract for the full answering pipeline.
type AnswerQuestionUsecase interface {
	Execute(ctx context.Context, input AnswerQuestionInput, sink ProgressSink) (*AnswerQuestionOutput, error)
}

type answerQuestionUsecase struct {
	analyzer      *QuestionAnalyzer
	decomposer    *QuestionDecomposer
	retriever     ContextRetriever
	evidence      *EvidenceChainBuilder
	adjudicator   *Adjudicator
	verifier      *AnswerVerifier
	promptBuilder PromptBuilder
	llm           domain.LLMClient
	cache         *SessionCache
	cfg           PipelineConfig
	logger        *slog.Logger
}

// NewAnswerQuestionUsecase wires the answering pipeline. The adjudicator may
// be nil; multiple-choice questions then fall back to evidence-chain scoring.
func NewAnswerQuestionUsecase(
	analyzer *QuestionAnalyzer,
	decomposer *QuestionDecomposer,
	retriever ContextRetriever,
	evidence *EvidenceChainBuilder,
	adjudicator *Adjudicator,
	verifier *AnswerVerifier,
	promptBuilder PromptBuilder,
	llm domain.LLMClient,
	cache *SessionCache,
	cfg PipelineConfig,
	logger *slog.Logger,
) AnswerQuestionUsecase {
	return &answerQuestionUsecase{
		analyzer:      analyzer,
		decomposer:    decomposer,
		retriever:     retriever,
		evidence:      evidence,
		adjudicator:   adjudicator,
		verifier:      verifier,
		promptBuilder: promptBuilder,
		llm:           llm,
		cache:         cache,
		cfg:           cfg,
		logger:        logger,
	}
}

// Execute runs the pipeline end to end. It always returns a usable output:
// every degradation path produces a low-confidence answer, never an error,
// except for empty input.
func (u *answerQuestionUsecase) Execute(ctx context.Context, input AnswerQuestionInput, sink ProgressSink) (*AnswerQuestionOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}
	if sink == nil {
		sink = nopProgressSink{}
	}
	out := &AnswerQuestionOutput{}

	sink.OnStep("analyze", "running", "")
	analysis := u.analyzer.Analyze(input.Question)
	out.ThinkingSteps = append(out.ThinkingSteps, ThinkingStep{
		Label: "analyze", Status: "done",
		Detail: fmt.Sprintf("type=%s trick=%t", analysis.Type, analysis.Intent.IsTrickQuestion),
	})
	sink.OnStep("analyze", "done", string(analysis.Type))

	sink.OnStep("decompose", "running", "")
	out.SubQuestions = u.decomposer.DecomposeWithAnalysis(input.Question, analysis)
	out.ThinkingSteps = append(out.ThinkingSteps, ThinkingStep{
		Label: "decompose", Status: "done",
		Detail: fmt.Sprintf("%d sub-questions", len(out.SubQuestions)),
	})
	sink.OnStep("decompose", "done", fmt.Sprintf("%d sub-questions", len(out.SubQuestions)))

	sink.OnStep("retrieve", "running", "")
	retrieved, err := u.retriever.GatherExpandedContext(ctx, RetrieveContextInput{
		SubQuestions: out.SubQuestions,
		QuestionType: analysis.Type,
		FilterPages:  input.FilterPages,
	})
	if err != nil {
		u.logger.Error("retrieval_failed", slog.String("error", err.Error()))
		retrieved = &retrieval.RetrievedContext{}
	}
	out.Pages = retrieved.AllPages
	out.ThinkingSteps = append(out.ThinkingSteps, ThinkingStep{
		Label: "retrieve", Status: "done",
		Detail: fmt.Sprintf("%d pages, %d chars", len(retrieved.AllPages), len(retrieved.ContextText)),
	})
	sink.OnStep("retrieve", "done", fmt.Sprintf("%d pages", len(retrieved.AllPages)))

	contextText := retrieved.ContextText
	var history []string
	if input.UseHistory && input.SessionID != "" && u.cache != nil {
		if prior, ok := u.cache.Get(input.SessionID); ok {
			history = append(history,
				"Q: "+prior.Question,
				"A: "+prior.Answer)
			contextText = prependHistoryContext(prior.ContextText, contextText, u.cfg.HistoryContextChars)
		}
	}

	out.CrossReferences = domain.ExtractCrossReferences(contextText)

	if len(strings.TrimSpace(contextText)) < u.cfg.MinContextChars {
		out.Answer = ""
		out.Explanation = "insufficient context: the document search did not return enough relevant text to answer"
		out.Confidence = 0
		sink.OnStep("answer", "done", "insufficient context")
		return out, nil
	}

	if len(input.Options) > 0 {
		u.answerQuiz(ctx, input, analysis, retrieved, out, sink)
	} else {
		u.answerOpen(ctx, input, analysis, contextText, history, out, sink)
	}

	if u.cache != nil && input.SessionID != "" && out.Answer != "" {
		u.cache.Put(input.SessionID, SessionCacheData{
			ContextText: contextText,
			Pages:       retrieved.AllPages,
			Question:    input.Question,
			Answer:      out.Answer,
		})
	}
	return out, nil
}

func (u *answerQuestionUsecase) answerQuiz(
	ctx context.Context,
	input AnswerQuestionInput,
	analysis QuestionAnalysis,
	retrieved *retrieval.RetrievedContext,
	out *AnswerQuestionOutput,
	sink ProgressSink,
) {
	candidates := flattenCandidates(retrieved.Contexts)

	sink.OnStep("evidence_chains", "running", "")
	out.EvidenceChains = u.evidence.Build(input.Question, input.Options, candidates)
	sink.OnStep("evidence_chains", "done", fmt.Sprintf("%d options", len(out.EvidenceChains)))

	if u.adjudicator != nil {
		sink.OnStep("adjudicate", "running", "")
		result, err := u.adjudicator.JudgeAdversarial(ctx, input.Question, input.Options, analysis, input.FilterPages)
		if err == nil {
			out.Answer = result.BestLetter
			out.Explanation = result.Explanation
			out.Confidence = result.Confidence
			out.Evidence = result.Evidence
			if len(result.Pages) > 0 {
				out.Pages = result.Pages
			}
			out.ThinkingSteps = append(out.ThinkingSteps, ThinkingStep{
				Label: "adjudicate", Status: "done",
				Detail: fmt.Sprintf("option=%s confidence=%.2f ambiguous=%t",
					result.BestLetter, result.Confidence, result.IsAmbiguous),
			})
			sink.OnStep("adjudicate", "done", result.BestLetter)
			u.verifySelection(ctx, input, result, out, sink)
			return
		}
		u.logger.Warn("adjudication_failed_falling_back",
			slog.String("error", err.Error()))
		sink.OnStep("adjudicate", "failed", err.Error())
	}

	// Evidence-chain fallback: pick the strongest-supported option.
	best := pickBestChain(out.EvidenceChains)
	if best == nil {
		out.Answer = ""
		out.Explanation = "no option has document support"
		out.Confidence = 0
		sink.OnStep("answer", "done", "no supported option")
		return
	}
	out.Answer = best.OptionLetter
	out.Explanation = fmt.Sprintf("option %s has the strongest document support (%s evidence)",
		best.OptionLetter, best.EvidenceType)
	out.Confidence = chainConfidence(*best)
	if len(best.Sources) > 0 {
		out.Evidence = best.Sources[0].Excerpt
		out.Pages = []int{best.Sources[0].Page}
	}
	sink.OnStep("answer", "done", best.OptionLetter)
}

func (u *answerQuestionUsecase) verifySelection(
	ctx context.Context,
	input AnswerQuestionInput,
	result *AdjudicationResult,
	out *AnswerQuestionOutput,
	sink ProgressSink,
) {
	if u.verifier == nil || result.BestOption == "" {
		return
	}
	sink.OnStep("verify", "running", "")
	score := u.verifier.VerifyQuizSelection(ctx, input.Question, result.BestOption, input.FilterPages)
	out.Verified = score >= u.cfg.Verifier.SupportThreshold
	sink.OnStep("verify", "done", fmt.Sprintf("support=%.2f", score))
}

func (u *answerQuestionUsecase) answerOpen(
	ctx context.Context,
	input AnswerQuestionInput,
	analysis QuestionAnalysis,
	contextText string,
	history []string,
	out *AnswerQuestionOutput,
	sink ProgressSink,
) {
	sink.OnStep("generate", "running", "")
	answer, err := u.generate(ctx, PromptInput{
		Question:     input.Question,
		QuestionType: analysis.Type,
		ContextText:  contextText,
		History:      history,
	})
	if err != nil {
		u.logger.Error("generation_failed", slog.String("error", err.Error()))
		out.Answer = ""
		out.Explanation = "answer generation failed; please retry"
		out.Confidence = 0
		sink.OnStep("generate", "failed", err.Error())
		return
	}
	out.Answer = answer
	out.Confidence = 0.7
	sink.OnStep("generate", "done", "")

	if !analysis.Strategy.Verify || u.verifier == nil {
		return
	}

	sink.OnStep("verify", "running", "")
	verification := u.verifier.VerifyAnswer(ctx, answer, input.FilterPages)
	out.Verification = verification
	out.Confidence = verification.OverallConfidence
	out.Verified = !verification.ShouldRegenerate && verification.OverallConfidence > 0
	sink.OnStep("verify", "done",
		fmt.Sprintf("confidence=%.2f regenerate=%t", verification.OverallConfidence, verification.ShouldRegenerate))

	if !verification.ShouldRegenerate {
		return
	}

	sink.OnStep("regenerate", "running", "")
	regenerated, err := u.generate(ctx, PromptInput{
		Question:             input.Question,
		QuestionType:         analysis.Type,
		ContextText:          contextText,
		History:              history,
		RegenerationPreamble: BuildRegenerationContext(verification),
	})
	if err != nil {
		u.logger.Warn("regeneration_failed_keeping_first_answer",
			slog.String("error", err.Error()))
		sink.OnStep("regenerate", "failed", err.Error())
		return
	}

	reverified := u.verifier.VerifyAnswer(ctx, regenerated, input.FilterPages)
	if reverified.OverallConfidence > verification.OverallConfidence {
		out.Answer = regenerated
		out.Verification = reverified
		out.Confidence = reverified.OverallConfidence
		out.Verified = !reverified.ShouldRegenerate && reverified.OverallConfidence > 0
	}
	sink.OnStep("regenerate", "done", fmt.Sprintf("confidence=%.2f", out.Confidence))
}

// generate calls the LLM under the generation timeout. Context-window
// overruns get one retry with the context halved and temperature zero.
func (u *answerQuestionUsecase) generate(ctx context.Context, input PromptInput) (string, error) {
	prompt, err := u.promptBuilder.Build(input)
	if err != nil {
		return "", err
	}

	genCtx, cancel := context.WithTimeout(ctx, u.cfg.GenerationTimeout)
	defer cancel()

	resp, err := u.llm.Generate(genCtx, prompt, u.cfg.AnswerMaxTokens, 0.2)
	if err == nil {
		return strings.TrimSpace(resp.Text), nil
	}
	if !isContextOverrun(err) {
		return "", err
	}

	u.logger.Warn("generation_context_overrun_retrying",
		slog.Int("context_chars", len(input.ContextText)))
	input.ContextText = input.ContextText[:len(input.ContextText)/2]

	prompt, buildErr := u.promptBuilder.Build(input)
	if buildErr != nil {
		return "", err
	}
	retryCtx, retryCancel := context.WithTimeout(ctx, u.cfg.GenerationTimeout)
	defer retryCancel()
	resp, retryErr := u.llm.Generate(retryCtx, prompt, u.cfg.AnswerMaxTokens, 0)
	if retryErr != nil {
		return "", retryErr
	}
	return strings.TrimSpace(resp.Text), nil
}

// prependHistoryContext puts the prior turn's context ahead of the fresh one
// so follow-up questions can still see what they refer back to. The prior
// part is bounded; fresh retrieval always survives intact.
func prependHistoryContext(prior, fresh string, limit int) string {
	prior = strings.TrimSpace(prior)
	fresh = strings.TrimSpace(fresh)
	if prior == "" {
		return fresh
	}
	if limit > 0 && len(prior) > limit {
		prior = excerpt(prior, limit)
	}
	if fresh == "" {
		return prior
	}
	return prior + "\n\n" + fresh
}

func isContextOverrun(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "context length") ||
		strings.Contains(msg, "too long")
}

func flattenCandidates(bySubQuestion map[string][]domain.SearchCandidate) []domain.SearchCandidate {
	var all []domain.SearchCandidate
	for _, candidates := range bySubQuestion {
		all = append(all, candidates...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Page < all[j].Page
	})
	return all
}

func pickBestChain(chains []domain.EvidenceChain) *domain.EvidenceChain {
	var best *domain.EvidenceChain
	for i := range chains {
		chain := &chains[i]
		if chain.EvidenceType == domain.EvidenceAbsent ||
			chain.EvidenceType == domain.EvidenceContradicted {
			continue
		}
		if best == nil || chain.Score > best.Score {
			best = chain
		}
	}
	return best
}

func chainConfidence(chain domain.EvidenceChain) float64 {
	confidence := chain.Score
	if confidence > 1 {
		confidence = 1
	}
	if chain.EvidenceType == domain.EvidenceImplied && confidence > 0.6 {
		confidence = 0.6
	}
	return confidence
}
