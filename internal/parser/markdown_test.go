package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Services Agreement

The parties agree as follows.

## Payment

Fees are due within 30 days.

### Late Payment

Interest accrues at 1% per month.

## Termination

Either party may terminate on notice.
`
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "msa.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "msa" {
		t.Errorf("expected title %q, got %q", "msa", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child (h1), got %d", len(tree.Children))
	}

	h1 := tree.Children[0]
	if h1.Title != "Services Agreement" {
		t.Errorf("expected h1 title %q, got %q", "Services Agreement", h1.Title)
	}
	if h1.Text != "The parties agree as follows." {
		t.Errorf("expected h1 text %q, got %q", "The parties agree as follows.", h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}

	payment := h1.Children[0]
	if payment.Title != "Payment" {
		t.Errorf("expected %q, got %q", "Payment", payment.Title)
	}
	if len(payment.Children) != 1 || payment.Children[0].Title != "Late Payment" {
		t.Fatalf("expected Late Payment under Payment, got %+v", payment.Children)
	}
	if h1.Children[1].Title != "Termination" {
		t.Errorf("expected %q, got %q", "Termination", h1.Children[1].Title)
	}
}

func TestMarkdownParser_TextBeforeFirstHeadingIsKept(t *testing.T) {
	input := "Preamble paragraph.\n\n# Definitions\n\nTerms are defined here.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected preamble node and heading node, got %d children", len(tree.Children))
	}
	if tree.Children[0].Title != "" || tree.Children[0].Text != "Preamble paragraph." {
		t.Errorf("expected untitled preamble node, got %+v", tree.Children[0])
	}
	if tree.Children[1].Title != "Definitions" {
		t.Errorf("expected %q, got %q", "Definitions", tree.Children[1].Title)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child for headingless markdown, got %d", len(tree.Children))
	}
	want := "Just some plain text.\nAnother paragraph here."
	if tree.Children[0].Text != want {
		t.Errorf("expected %q, got %q", want, tree.Children[0].Text)
	}
}

func TestMarkdownParser_ListsAndCodeBlocks(t *testing.T) {
	input := "# Schedule\n\n- Item one.\n- Item two.\n\n```\nRate: 100\nCap: 500\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(input), "schedule.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(tree.Children))
	}

	text := tree.Children[0].Text
	for _, want := range []string{"Item one.", "Item two.", "Rate: 100", "More text after code."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
	if !strings.Contains(text, "Item one.\nItem two.") {
		t.Errorf("expected list items on separate lines, got %q", text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"uploads/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		tree, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if tree.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, tree.Title)
		}
	}
}
