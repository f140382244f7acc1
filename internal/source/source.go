package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is the flattened form of an uploaded file: a title plus the plain
// text that seeds an import session.
type Document struct {
	Title string
	Text  string
}

// Flattener converts raw document bytes into plain text.
type Flattener interface {
	Flatten(r io.Reader, filename string) (Document, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate flattener for a filename.
func ForFile(filename string) (Flattener, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextFlattener{}, nil
	case ".md", ".markdown":
		return &MarkdownFlattener{}, nil
	case ".html", ".htm":
		return &HTMLFlattener{}, nil
	case ".pdf":
		return &PDFFlattener{}, nil
	case ".docx":
		return &DOCXFlattener{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// joinParagraphs assembles paragraph strings with blank-line separators,
// dropping empties.
func joinParagraphs(paragraphs []string) string {
	var kept []string
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// titleFromFilename strips the extension for a fallback title.
func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
