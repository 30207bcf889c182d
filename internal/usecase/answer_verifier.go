package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"docqa-orchestrator/internal/domain"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+\s+|[.!?]+$`)

// metaSentencePattern filters hedges and meta-commentary that carry no
// verifiable factual content.
var metaSentencePattern = regexp.MustCompile(
	`(?i)^(?:in summary|in conclusion|to summarize|overall|note that|` +
		`it (?:is|seems|appears|may be) (?:important|worth|possible|likely)|` +
		`based on the (?:document|context|provided)|` +
		`i (?:think|believe|cannot|can't)|as (?:mentioned|noted|stated))`)

// AnswerVerifier checks generated answers claim by claim against the
// document index.
type AnswerVerifier struct {
	index  domain.DocumentIndex
	cfg    VerifierConfig
	logger *slog.Logger
}

// NewAnswerVerifier creates a verifier over the given index.
func NewAnswerVerifier(index domain.DocumentIndex, cfg VerifierConfig, logger *slog.Logger) *AnswerVerifier {
	return &AnswerVerifier{index: index, cfg: cfg, logger: logger}
}

// ExtractClaims splits an answer into individually verifiable claims.
// Fragments shorter than the minimum length and meta/hedge sentences are
// dropped.
func (v *AnswerVerifier) ExtractClaims(answer string) []domain.Claim {
	var claims []domain.Claim
	for _, sentence := range sentenceSplitPattern.Split(answer, -1) {
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) < v.cfg.MinClaimLength {
			continue
		}
		if metaSentencePattern.MatchString(trimmed) {
			continue
		}
		claims = append(claims, domain.Claim{
			ID:   uuid.NewString(),
			Text: trimmed,
		})
	}
	return claims
}

// VerifyClaim searches the index for the claim text and scores the best
// candidate with a lexical/semantic blend. A claim with no candidates is
// unsupported with zero confidence.
func (v *AnswerVerifier) VerifyClaim(ctx context.Context, claim domain.Claim, filterPages []int) domain.Claim {
	candidates, err := v.index.Search(ctx, claim.Text, filterPages)
	if err != nil {
		v.logger.Warn("claim_search_failed",
			slog.String("claim_id", claim.ID),
			slog.String("error", err.Error()))
		candidates = nil
	}
	if len(candidates) == 0 {
		claim.IsSupported = false
		claim.Confidence = 0
		return claim
	}

	best := 0.0
	for _, cand := range candidates {
		score := 0.5*domain.LexicalDetailScore(claim.Text, cand.Text) +
			0.5*domain.CosineSimilarity(claim.Text, cand.Text)
		if score > best {
			best = score
			claim.SupportingEvidence = excerpt(cand.Text, 200)
			claim.SupportingPage = cand.Page
		}
	}

	claim.Confidence = best
	claim.IsSupported = best >= v.cfg.SupportThreshold
	if !claim.IsSupported {
		claim.SupportingEvidence = ""
		claim.SupportingPage = 0
	}
	return claim
}

// VerifyAnswer verifies every claim in the answer and aggregates the result.
// An answer with zero extractable claims gets zero confidence but is not
// regenerated: there is nothing concrete to re-ground.
func (v *AnswerVerifier) VerifyAnswer(ctx context.Context, answer string, filterPages []int) *domain.VerificationResult {
	claims := v.ExtractClaims(answer)
	if len(claims) == 0 {
		return &domain.VerificationResult{
			OverallConfidence: 0,
			ShouldRegenerate:  false,
		}
	}

	supported := 0
	var unsupported []string
	for i, claim := range claims {
		claims[i] = v.VerifyClaim(ctx, claim, filterPages)
		if claims[i].IsSupported {
			supported++
		} else {
			unsupported = append(unsupported, claims[i].Text)
		}
	}

	confidence := float64(supported) / float64(len(claims))
	result := &domain.VerificationResult{
		Claims:              claims,
		OverallConfidence:   confidence,
		SupportedClaimCount: supported,
		UnsupportedClaims:   unsupported,
		ShouldRegenerate:    confidence < v.cfg.RegenerateBelow && len(unsupported) > 0,
	}

	v.logger.Info("answer_verified",
		slog.Int("claims", len(claims)),
		slog.Int("supported", supported),
		slog.Float64("confidence", confidence),
		slog.Bool("regenerate", result.ShouldRegenerate))
	return result
}

// VerifyQuizSelection checks a chosen option against the document, both on
// its own and in the question's context, taking the stronger signal. Queries
// too short to be meaningful are skipped.
func (v *AnswerVerifier) VerifyQuizSelection(ctx context.Context, question, optionText string, filterPages []int) float64 {
	best := 0.0
	for _, query := range []string{optionText, question + " " + optionText} {
		if len(strings.TrimSpace(query)) < v.cfg.MinClaimLength {
			continue
		}
		claim := v.VerifyClaim(ctx, domain.Claim{ID: uuid.NewString(), Text: query}, filterPages)
		if claim.Confidence > best {
			best = claim.Confidence
		}
	}
	return best
}

// BuildRegenerationContext produces the stricter grounding preamble for a
// second generation attempt: the supported claims to keep, and the claims
// the document could not back.
func BuildRegenerationContext(result *domain.VerificationResult) string {
	var sb strings.Builder
	sb.WriteString("The previous answer contained statements not supported by the document. ")
	sb.WriteString("Answer again using ONLY information from the provided context.\n")

	var kept []string
	for _, claim := range result.Claims {
		if claim.IsSupported {
			kept = append(kept, claim.Text)
		}
	}
	if len(kept) > 0 {
		sb.WriteString("\nVerified statements you may keep:\n")
		for _, text := range kept {
			fmt.Fprintf(&sb, "- %s\n", text)
		}
	}
	if len(result.UnsupportedClaims) > 0 {
		sb.WriteString("\nDo NOT repeat these unverified statements:\n")
		for _, text := range result.UnsupportedClaims {
			fmt.Fprintf(&sb, "- %s\n", text)
		}
	}
	return sb.String()
}
