package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/clausewise/internal/analysis"
)

const (
	clausesSheet = "Clauses"
	summarySheet = "Summary"
)

var clauseHeader = []any{
	"Clause", "Text", "Category", "Importance", "Risk Score",
	"Dates", "Boilerplate", "Sentiment", "Tone", "Suggestion", "Error",
}

// WriteXLSX writes a workbook with one row per clause and a summary sheet.
func WriteXLSX(w io.Writer, rep *analysis.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", clausesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(clausesSheet, "A1", &clauseHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range rep.Clauses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			c.Index, strings.TrimSpace(c.Text), string(c.Category), string(c.Importance), c.RiskScore,
			formatDates(c.Dates), c.Boilerplate, c.Sentiment, c.Tone, c.Rewrite, c.Error,
		}
		if err := f.SetSheetRow(clausesSheet, cell, &row); err != nil {
			return fmt.Errorf("write clause %d: %w", c.Index, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]any{
		{"File", rep.Filename},
		{"Summary", rep.Summary},
		{"Clauses", rep.Stats.Clauses},
		{"Total risk score", rep.Stats.TotalRisk},
		{"Boilerplate clauses", rep.Stats.Boilerplate},
	}
	for _, imp := range importanceOrder {
		rows = append(rows, []any{"Risk " + string(imp), rep.Stats.ByImportance[imp]})
	}
	for _, cat := range categoryOrder() {
		rows = append(rows, []any{"Category " + string(cat), rep.Stats.ByCategory[cat]})
	}
	for _, k := range sortedKeys(rep.Stats.BySentiment) {
		rows = append(rows, []any{"Sentiment " + k, rep.Stats.BySentiment[k]})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatDates(dates []analysis.DateMention) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Text+" → "+d.Date)
	}
	return strings.Join(parts, "; ")
}
