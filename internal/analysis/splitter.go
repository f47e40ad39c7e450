package analysis

import (
	"strings"
	"unicode"
)

// SplitIntoClauses segments a document into clauses. The document is trimmed
// first; the clauses themselves are returned as found, so entries may be
// empty or carry surrounding whitespace.
//
// A boundary is, at the earliest position where one matches:
//   - whitespace after a period when the next character is an uppercase letter,
//   - a newline,
//   - an enumeration marker: digits, a period, then whitespace.
//
// Boundary text is dropped.
func SplitIntoClauses(text string) []string {
	r := []rune(strings.TrimSpace(text))

	var clauses []string
	last := 0
	for i := 0; i < len(r); {
		end := boundaryAt(r, i)
		if end < 0 {
			i++
			continue
		}
		clauses = append(clauses, string(r[last:i]))
		last = end
		i = end
	}
	return append(clauses, string(r[last:]))
}

// boundaryAt returns the end of the boundary starting at i, or -1.
// Alternatives are tried in order and the first match wins.
func boundaryAt(r []rune, i int) int {
	// Sentence boundary: whitespace run preceded by '.' and followed by A-Z.
	if i > 0 && r[i-1] == '.' && unicode.IsSpace(r[i]) {
		j := i
		for j < len(r) && unicode.IsSpace(r[j]) {
			j++
		}
		if j < len(r) && r[j] >= 'A' && r[j] <= 'Z' {
			return j
		}
	}

	if r[i] == '\n' {
		return i + 1
	}

	// Enumeration marker.
	j := i
	for j < len(r) && unicode.IsDigit(r[j]) {
		j++
	}
	if j > i && j < len(r) && r[j] == '.' {
		k := j + 1
		for k < len(r) && unicode.IsSpace(r[k]) {
			k++
		}
		if k > j+1 {
			return k
		}
	}
	return -1
}
