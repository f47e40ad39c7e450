package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/clausewise/internal/analysis"
)

var importanceOrder = []analysis.Importance{
	analysis.ImportanceHigh,
	analysis.ImportanceMedium,
	analysis.ImportanceLow,
}

// Markdown renders a report for download or display.
func Markdown(rep *analysis.Report) string {
	var sb strings.Builder

	title := "Contract Analysis"
	if rep.Filename != "" {
		title += ": " + rep.Filename
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	sb.WriteString("## Document Summary\n\n")
	if rep.Summary != "" {
		sb.WriteString(rep.Summary)
	} else {
		sb.WriteString("_No summary available._")
	}
	sb.WriteString("\n\n")

	writeStats(&sb, rep.Stats)

	sb.WriteString("## Clause Analysis\n\n")
	if len(rep.Clauses) == 0 {
		sb.WriteString("_No clauses found._\n")
	}
	for _, c := range rep.Clauses {
		writeClause(&sb, c, rep.Options)
	}
	return sb.String()
}

func writeStats(sb *strings.Builder, st analysis.Stats) {
	sb.WriteString("## Overview\n\n")
	fmt.Fprintf(sb, "- Clauses: %d\n", st.Clauses)
	fmt.Fprintf(sb, "- Total risk score: %d\n", st.TotalRisk)
	fmt.Fprintf(sb, "- Boilerplate clauses: %d\n", st.Boilerplate)
	if st.Failed > 0 {
		fmt.Fprintf(sb, "- Clauses with errors: %d\n", st.Failed)
	}
	sb.WriteString("\n")

	sb.WriteString("| Risk level | Count |\n|---|---|\n")
	for _, imp := range importanceOrder {
		fmt.Fprintf(sb, "| %s | %d |\n", imp, st.ByImportance[imp])
	}
	sb.WriteString("\n")

	sb.WriteString("| Category | Count |\n|---|---|\n")
	for _, entry := range categoryOrder() {
		if n := st.ByCategory[entry]; n > 0 {
			fmt.Fprintf(sb, "| %s | %d |\n", entry, n)
		}
	}
	sb.WriteString("\n")

	if len(st.BySentiment) > 0 {
		sb.WriteString("| Sentiment | Count |\n|---|---|\n")
		for _, k := range sortedKeys(st.BySentiment) {
			fmt.Fprintf(sb, "| %s | %d |\n", k, st.BySentiment[k])
		}
		sb.WriteString("\n")
	}
}

func writeClause(sb *strings.Builder, c analysis.ClauseResult, opts analysis.Options) {
	fmt.Fprintf(sb, "### Clause %d: %s (Importance: %s)\n\n", c.Index, c.Category, c.Importance)
	fmt.Fprintf(sb, "**Text:** %s\n\n", strings.TrimSpace(c.Text))

	if opts.Timeline && len(c.Dates) > 0 {
		sb.WriteString("**Dates found:**\n\n")
		for _, d := range c.Dates {
			fmt.Fprintf(sb, "- %s → %s\n", d.Text, d.Date)
		}
		sb.WriteString("\n")
	}
	if opts.Tone && c.Sentiment != "" {
		fmt.Fprintf(sb, "**Sentiment:** %s, **Tone:** %s\n\n", c.Sentiment, c.Tone)
	}
	if c.Boilerplate {
		sb.WriteString("> Detected as boilerplate clause.\n\n")
	}
	if c.Error != "" {
		fmt.Fprintf(sb, "> Analysis error: %s\n\n", c.Error)
	}
	fmt.Fprintf(sb, "**Suggestion:** %s\n\n", c.Rewrite)
}

// HTML renders the Markdown report as a standalone HTML page.
func HTML(rep *analysis.Report) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(rep)), &body); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Contract Analysis</title></head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body></html>\n")
	return sb.String(), nil
}

// SummaryText is the plain-text summary download.
func SummaryText(rep *analysis.Report) string {
	return rep.Summary
}

func categoryOrder() []analysis.Category {
	out := make([]analysis.Category, 0, len(analysis.CategoryKeywordTable)+1)
	for _, entry := range analysis.CategoryKeywordTable {
		out = append(out, entry.Category)
	}
	return append(out, analysis.CategoryOther)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
