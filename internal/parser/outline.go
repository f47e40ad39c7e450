package parser

import (
	"strings"

	"github.com/dgallion1/clausewise/internal/doctree"
)

// outline builds a DocTree from a flat stream of headings and text blocks,
// nesting each heading under the nearest heading of a lower level.
type outline struct {
	root    *doctree.DocNode
	stack   []outlineEntry
	pending []string
}

type outlineEntry struct {
	node  *doctree.DocNode
	level int
}

func newOutline() *outline {
	root := &doctree.DocNode{}
	return &outline{root: root, stack: []outlineEntry{{node: root, level: 0}}}
}

func (o *outline) heading(level int, title string) {
	o.flush()
	node := &doctree.DocNode{Title: title}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].node
	parent.Children = append(parent.Children, node)
	o.stack = append(o.stack, outlineEntry{node: node, level: level})
}

func (o *outline) text(t string) {
	if t = strings.TrimSpace(t); t != "" {
		o.pending = append(o.pending, t)
	}
}

func (o *outline) flush() {
	if len(o.pending) == 0 {
		return
	}
	top := o.stack[len(o.stack)-1].node
	t := strings.Join(o.pending, "\n")
	if top.Text != "" {
		top.Text += "\n" + t
	} else {
		top.Text = t
	}
	o.pending = o.pending[:0]
}

// tree returns the finished document. Text that appeared before the first
// heading becomes a leading untitled node.
func (o *outline) tree(title string) *doctree.DocTree {
	o.flush()
	tree := &doctree.DocTree{Title: title}
	if o.root.Text != "" {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: o.root.Text})
	}
	tree.Children = append(tree.Children, o.root.Children...)
	return tree
}
