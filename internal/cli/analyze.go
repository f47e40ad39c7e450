package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/bootstrap"
	"github.com/dgallion1/clausewise/internal/cache"
	"github.com/dgallion1/clausewise/internal/parser"
	"github.com/dgallion1/clausewise/internal/report"
)

type analyzeOptions struct {
	format          string
	noTimeline      bool
	noTone          bool
	continueOnError bool
	xlsxPath        string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze every clause of a document",
		Long: `Analyze summarizes the document and reports, per clause: category,
importance, risk score, dates, boilerplate flag, sentiment, tone and a
rewrite suggestion.

Example:
  clausewise analyze contract.pdf
  clausewise analyze nda.docx --format md --no-tone
  clausewise analyze lease.txt --xlsx lease_analysis.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "json", "output format (json, yaml, md)")
	f.BoolVar(&opts.noTimeline, "no-timeline", false, "skip date extraction")
	f.BoolVar(&opts.noTone, "no-tone", false, "skip sentiment and tone (no per-clause model calls)")
	f.BoolVar(&opts.continueOnError, "continue-on-error", false, "record failing clauses instead of aborting")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "also write an Excel workbook to this path")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, path string) error {
	switch opts.format {
	case "json", "yaml", "md":
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or md)", opts.format)
	}

	app, text, err := loadDocument(root, path)
	if err != nil {
		return err
	}
	defer app.Close()

	aopts := app.DefaultOptions()
	aopts.Timeline = !opts.noTimeline
	aopts.Tone = !opts.noTone
	if opts.continueOnError {
		aopts.ContinueOnError = true
	}
	log := root.logger()
	aopts.Progress = func(done, total int) {
		log.Debug("clause analyzed", "done", done, "total", total)
	}

	rep, err := app.Service.Analyze(cmd.Context(), text, aopts)
	if err != nil {
		return err
	}
	rep.Filename = filepath.Base(path)
	rep.ContentHash = cache.ContentHash(text)
	rep.Options.Progress = nil

	if err := writeReport(cmd.OutOrStdout(), rep, opts.format); err != nil {
		return err
	}
	if opts.xlsxPath != "" {
		if err := writeWorkbook(opts.xlsxPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.xlsxPath)
	}
	return nil
}

// loadDocument builds the app and extracts the document text.
func loadDocument(root *rootOptions, path string) (*bootstrap.App, string, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, "", err
	}
	app, err := root.loadApp()
	if err != nil {
		return nil, "", err
	}
	ex := parser.Extractor{PDFFallbackPdftotext: app.Config.PDFFallbackPdftotext}
	text, format, err := ex.ExtractFile(data, filepath.Base(path))
	if err != nil {
		app.Close()
		return nil, "", err
	}
	root.logger().Debug("extracted text", "file", path, "format", string(format), "chars", len(text))
	return app, text, nil
}

func writeReport(w io.Writer, rep *analysis.Report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "md":
		_, err := io.WriteString(w, report.Markdown(rep))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
}

func writeWorkbook(path string, rep *analysis.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return report.WriteXLSX(f, rep)
}

func newSummarizeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, text, err := loadDocument(root, args[0])
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.Service.Summarizer.Summarize(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newAskCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file> <question>",
		Short: "Answer a question about a document",
		Example: `  clausewise ask lease.pdf "What is the notice period?"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, text, err := loadDocument(root, args[0])
			if err != nil {
				return err
			}
			defer app.Close()

			ans, err := app.Service.Ask(cmd.Context(), args[1], text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n(confidence %.2f)\n", ans.Text, ans.Score)
			return nil
		},
	}
}
