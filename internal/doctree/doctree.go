package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Flatten renders the tree back to plain text in reading order: each
// heading, then its text, then its subsections, one block per line. The
// document title is metadata and is not included.
func Flatten(tree *DocTree) string {
	if tree == nil {
		return ""
	}
	var parts []string
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if t := strings.TrimSpace(n.Title); t != "" {
				parts = append(parts, t)
			}
			if t := strings.TrimSpace(n.Text); t != "" {
				parts = append(parts, t)
			}
			walk(n.Children)
		}
	}
	walk(tree.Children)
	return strings.Join(parts, "\n")
}
