// Package docx writes Word documents through godocx and reads the plain
// text back out of them.
package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	godocxdoc "github.com/gomutex/godocx/docx"
)

// Filename is the name handed to clients for generated documents.
const Filename = "converted.docx"

// build creates a document, lets fill populate it inside a scratch
// directory and returns the saved package.
func build(fill func(doc *godocxdoc.RootDoc, dir string) error) ([]byte, error) {
	dir, err := os.MkdirTemp("", "docx-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}
	if err := fill(doc, dir); err != nil {
		return nil, err
	}

	out := filepath.Join(dir, Filename)
	if err := doc.SaveTo(out); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return os.ReadFile(out)
}

// FromParagraphs builds a document with one paragraph per element.
func FromParagraphs(paragraphs []string) ([]byte, error) {
	return build(func(doc *godocxdoc.RootDoc, _ string) error {
		for _, p := range paragraphs {
			doc.AddParagraph(p)
		}
		return nil
	})
}

// FromText splits text on blank-line boundaries and writes one paragraph
// per non-empty block. fallback is used when nothing is left.
func FromText(text, fallback string) ([]byte, error) {
	return FromParagraphs(Paragraphs(text, fallback))
}

// Paragraphs splits text on "\n\n" and drops blocks that are only
// whitespace. An empty result is replaced by fallback.
func Paragraphs(text, fallback string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = []string{fallback}
	}
	return out
}
