package analysis

import "strings"

// PreviewLength is the number of characters shown for a compared line.
const PreviewLength = 150

// Comparison lists lines present in one document but not the other.
type Comparison struct {
	MissingInB []string `json:"missing_in_b" yaml:"missing_in_b"`
	MissingInA []string `json:"missing_in_a" yaml:"missing_in_a"`
}

// CompareDocuments treats each document as a set of lines and returns the
// set differences in first-occurrence order. Blank lines are ignored.
func CompareDocuments(a, b string) Comparison {
	linesA, setA := lineSet(a)
	linesB, setB := lineSet(b)

	cmp := Comparison{MissingInB: []string{}, MissingInA: []string{}}
	for _, l := range linesA {
		if !setB[l] {
			cmp.MissingInB = append(cmp.MissingInB, l)
		}
	}
	for _, l := range linesB {
		if !setA[l] {
			cmp.MissingInA = append(cmp.MissingInA, l)
		}
	}
	return cmp
}

func lineSet(text string) ([]string, map[string]bool) {
	seen := make(map[string]bool)
	var ordered []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" || seen[l] {
			continue
		}
		seen[l] = true
		ordered = append(ordered, l)
	}
	return ordered, seen
}

// Preview shortens a line for display, appending "..." when cut.
func Preview(line string) string {
	cut := truncateRunes(line, PreviewLength)
	if cut == line {
		return line
	}
	return cut + "..."
}
