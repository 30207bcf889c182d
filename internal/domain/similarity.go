package domain

import (
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var tokenPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9'-]*`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "was": {}, "were": {}, "which": {},
	"with": {}, "what": {}, "where": {}, "when": {}, "how": {}, "why": {},
	"does": {}, "do": {}, "did": {}, "can": {}, "will": {}, "would": {},
	"following": {}, "these": {}, "those": {}, "their": {}, "there": {},
}

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// KeyTerms returns the content-bearing tokens of a text in first-seen order,
// deduplicated and capped at max (0 means no cap). Stopwords and tokens
// shorter than three characters are dropped.
func KeyTerms(text string, max int) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
		if max > 0 && len(terms) >= max {
			break
		}
	}
	return terms
}

// CosineSimilarity computes the cosine of the term-frequency vectors of two
// texts. Returns a value in [0, 1]; 0 when either text has no tokens.
func CosineSimilarity(a, b string) float64 {
	tokensA := Tokenize(a)
	tokensB := Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	vocab := make(map[string]int)
	for _, tok := range tokensA {
		if _, ok := vocab[tok]; !ok {
			vocab[tok] = len(vocab)
		}
	}
	for _, tok := range tokensB {
		if _, ok := vocab[tok]; !ok {
			vocab[tok] = len(vocab)
		}
	}

	vecA := make([]float64, len(vocab))
	vecB := make([]float64, len(vocab))
	for _, tok := range tokensA {
		vecA[vocab[tok]]++
	}
	for _, tok := range tokensB {
		vecB[vocab[tok]]++
	}

	normA := floats.Norm(vecA, 2)
	normB := floats.Norm(vecB, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(vecA, vecB) / (normA * normB)
}

// LexicalDetailScore measures how much of the query's key vocabulary a
// passage covers, weighting longer (more specific) terms higher. Returns a
// value in [0, 1].
func LexicalDetailScore(query, passage string) float64 {
	terms := KeyTerms(query, 0)
	if len(terms) == 0 {
		return 0
	}
	lowerPassage := strings.ToLower(passage)

	var total, matched float64
	for _, term := range terms {
		weight := float64(len(term))
		total += weight
		if strings.Contains(lowerPassage, term) {
			matched += weight
		}
	}
	if total == 0 {
		return 0
	}
	return matched / total
}
