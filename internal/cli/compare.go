package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/parser"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var pdftotext bool
	cmd := &cobra.Command{
		Use:   "compare <file-a> <file-b>",
		Short: "List lines present in one document but not the other",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := parser.Extractor{PDFFallbackPdftotext: pdftotext}
			texts := make([]string, 2)
			for i, path := range args {
				data, err := readInput(path)
				if err != nil {
					return err
				}
				text, _, err := ex.ExtractFile(data, filepath.Base(path))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				texts[i] = text
			}
			root.logger().Debug("comparing documents", "a", args[0], "b", args[1])
			printComparison(cmd.OutOrStdout(), analysis.CompareDocuments(texts[0], texts[1]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pdftotext, "pdftotext", true, "fall back to pdftotext for PDFs the native reader cannot open")
	return cmd
}

func printComparison(w io.Writer, cmp analysis.Comparison) {
	section := func(title string, lines []string) {
		fmt.Fprintf(w, "%s (%d)\n", title, len(lines))
		for _, l := range lines {
			fmt.Fprintf(w, "  - %s\n", analysis.Preview(l))
		}
	}
	section("Missing in B", cmp.MissingInB)
	section("Missing in A", cmp.MissingInA)
}
