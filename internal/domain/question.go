package domain

// QuestionType classifies the intent of a user question. The declaration
// order matters: it is the tie-break order for pattern-based classification.
type QuestionType string

const (
	QuestionFactual      QuestionType = "factual"
	QuestionProcedural   QuestionType = "procedural"
	QuestionComparative  QuestionType = "comparative"
	QuestionCausal       QuestionType = "causal"
	QuestionDefinitional QuestionType = "definitional"
	QuestionEvaluative   QuestionType = "evaluative"
	QuestionHypothetical QuestionType = "hypothetical"
	QuestionEnumerative  QuestionType = "enumerative"
	QuestionDiagnostic   QuestionType = "diagnostic"
	QuestionMechanism    QuestionType = "mechanism"
)

// SubQuestion is a narrower question derived from the user's original
// question to broaden retrieval coverage. It lives only within one pipeline
// run and is never persisted.
type SubQuestion struct {
	ID       string
	Question string
	Type     QuestionType
}
