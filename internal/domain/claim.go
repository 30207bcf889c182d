package domain

// Claim is one checkable factual statement extracted from a generated answer.
// Claims are verified independently of each other.
type Claim struct {
	ID                 string
	Text               string
	IsSupported        bool
	Confidence         float64
	SupportingEvidence string
	SupportingPage     int
}

// VerificationResult aggregates per-claim verification for one answer.
// A result with zero claims must report OverallConfidence = 0: absence of
// evidence is never treated as support.
type VerificationResult struct {
	Claims              []Claim
	OverallConfidence   float64
	SupportedClaimCount int
	// UnsupportedClaims holds the texts of claims the document could not
	// back; regeneration prompts quote them verbatim.
	UnsupportedClaims []string
	ShouldRegenerate  bool
}
