package domain

import "context"

// NLILabel is the three-way natural-language-inference verdict.
type NLILabel string

const (
	NLIEntailment    NLILabel = "entailment"
	NLIContradiction NLILabel = "contradiction"
	NLINeutral       NLILabel = "neutral"
)

// NLIScores holds the per-label probabilities from the entailment model.
type NLIScores struct {
	Entailment    float64
	Contradiction float64
	Neutral       float64
}

// NLIVerdict is the result of judging one premise/hypothesis pair.
type NLIVerdict struct {
	Label  NLILabel
	Scores NLIScores
}

// EntailmentJudge defines the capability to judge whether a premise supports,
// contradicts, or is unrelated to a hypothesis.
type EntailmentJudge interface {
	Judge(ctx context.Context, premise, hypothesis string) (*NLIVerdict, error)
}
