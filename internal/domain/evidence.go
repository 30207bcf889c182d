package domain

// EvidenceType classifies how strongly the document backs one answer option.
type EvidenceType string

const (
	EvidenceExplicit     EvidenceType = "explicit"
	EvidenceImplied      EvidenceType = "implied"
	EvidenceAbsent       EvidenceType = "absent"
	EvidenceContradicted EvidenceType = "contradicted"
)

// EvidenceSource is one supporting passage for an option.
type EvidenceSource struct {
	Page       int
	Excerpt    string
	Confidence float64
}

// EvidenceChain records how strongly, and with what supporting text, a
// multiple-choice option is backed by the document. Sources are sorted by
// descending confidence and truncated to three.
type EvidenceChain struct {
	OptionLetter string
	OptionText   string
	EvidenceType EvidenceType
	Score        float64
	Sources      []EvidenceSource
}
