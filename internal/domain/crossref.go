package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// CrossRefType names the kind of internal document reference.
type CrossRefType string

const (
	CrossRefChapter CrossRefType = "chapter"
	CrossRefFigure  CrossRefType = "figure"
	CrossRefTable   CrossRefType = "table"
	CrossRefSection CrossRefType = "section"
)

// CrossReference is a pointer from the assembled context into another part
// of the document. Informational only; never used in scoring.
type CrossReference struct {
	Type      CrossRefType
	Reference string
}

var crossRefPatterns = []struct {
	refType CrossRefType
	pattern *regexp.Regexp
}{
	{CrossRefChapter, regexp.MustCompile(`(?i)\bchapter\s+(\d+[A-Za-z]?)`)},
	{CrossRefFigure, regexp.MustCompile(`(?i)\bfigure\s+(\d+(?:[.-]\d+)?)`)},
	{CrossRefTable, regexp.MustCompile(`(?i)\btable\s+(\d+(?:[.-]\d+)?)`)},
	{CrossRefSection, regexp.MustCompile(`(?i)\bsection\s+(\d+(?:\.\d+)*)`)},
}

// ExtractCrossReferences scans text for chapter/figure/table/section
// references, deduplicated in first-seen order.
func ExtractCrossReferences(text string) []CrossReference {
	var refs []CrossReference
	seen := make(map[string]struct{})

	for _, entry := range crossRefPatterns {
		for _, match := range entry.pattern.FindAllStringSubmatch(text, -1) {
			ref := fmt.Sprintf("%s %s", entry.refType, strings.ToUpper(match[1]))
			if _, dup := seen[ref]; dup {
				continue
			}
			seen[ref] = struct{}{}
			refs = append(refs, CrossReference{Type: entry.refType, Reference: match[1]})
		}
	}
	return refs
}
