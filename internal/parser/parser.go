package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/clausewise/internal/doctree"
)

// ErrUnsupportedFormat is returned for a file type no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is the declared type of an uploaded document.
type Format string

const (
	FormatText     Format = "text"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

var extensionFormats = map[string]Format{
	".txt":      FormatText,
	".docx":     FormatDOCX,
	".pdf":      FormatPDF,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
}

// FormatFromFilename maps a file extension to its Format.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := extensionFormats[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return f, nil
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := FormatFromFilename(filename)
	return err == nil
}

// Extractor turns uploaded bytes into the plain document string the
// analyzer works on.
type Extractor struct {
	// PDFFallbackPdftotext shells out to pdftotext when the Go PDF reader
	// fails.
	PDFFallbackPdftotext bool
}

// ForFormat returns the parser for a format.
func (e Extractor) ForFormat(format Format) (Parser, error) {
	switch format {
	case FormatText:
		return &TextParser{}, nil
	case FormatDOCX:
		return &DOCXParser{}, nil
	case FormatPDF:
		return &PDFParser{FallbackPdftotext: e.PDFFallbackPdftotext}, nil
	case FormatMarkdown:
		return &MarkdownParser{}, nil
	case FormatHTML:
		return &HTMLParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Extract parses data in the declared format and flattens it to text.
func (e Extractor) Extract(data []byte, format Format, filename string) (string, error) {
	p, err := e.ForFormat(format)
	if err != nil {
		return "", err
	}
	tree, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", format, err)
	}
	return doctree.Flatten(tree), nil
}

// ExtractFile detects the format from the filename and extracts the text.
func (e Extractor) ExtractFile(data []byte, filename string) (string, Format, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return "", "", err
	}
	text, err := e.Extract(data, format, filename)
	return text, format, err
}

// ExtractText extracts with default settings.
func ExtractText(data []byte, format Format) (string, error) {
	return Extractor{}.Extract(data, format, "")
}

func docTitle(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
