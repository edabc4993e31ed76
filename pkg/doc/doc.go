// Package doc turns a document file into the flat text stream the p-value
// miner consumes. It owns file access and decoding; everything downstream
// operates on the returned text only.
package doc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatTXT Format = "txt"
)

// Document is the extracted textual content of one file.
type Document struct {
	Path   string `json:"path" yaml:"path"`
	Format Format `json:"format" yaml:"format"`
	Pages  int    `json:"pages" yaml:"pages"`
	Text   string `json:"-" yaml:"-"`
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".txt":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("unrecognized document type: %s", path)
	}
}

// ExtractText reads the file at path and returns its text content,
// page order preserved for PDFs. Missing files and unsupported extensions
// are reported as errors; the caller owns exit semantics.
func ExtractText(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("document path required")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		text, pages, err := extractPDF(path)
		if err != nil {
			return nil, fmt.Errorf("extracting PDF text from %s: %w", path, err)
		}
		return &Document{Path: path, Format: format, Pages: pages, Text: text}, nil
	case FormatTXT:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return &Document{Path: path, Format: format, Pages: 1, Text: string(b)}, nil
	default:
		return nil, fmt.Errorf("unrecognized document type: %s", path)
	}
}
