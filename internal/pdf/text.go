package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gen2brain/go-fitz"
	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

// NoTextPlaceholder is returned when no text could be extracted.
const NoTextPlaceholder = "No text found in PDF"

// TextDocument reads the text layer one page at a time. Pages are 0-based.
type TextDocument interface {
	NumPage() int
	Text(page int) (string, error)
	Close() error
}

// TextLayer opens a document for page-by-page text reads.
type TextLayer interface {
	Open(data []byte) (TextDocument, error)
}

// PlainText extracts the text of a whole document in one go.
type PlainText interface {
	Extract(data []byte) (string, error)
}

// TextExtractor reads the text of a PDF, one paragraph per page.
type TextExtractor struct {
	primary  TextLayer
	fallback PlainText
	log      logging.Logger
}

func NewTextExtractor(primary TextLayer, fallback PlainText, log logging.Logger) *TextExtractor {
	return &TextExtractor{primary: primary, fallback: fallback, log: log}
}

// Extract never fails: when neither reader finds text the result is
// NoTextPlaceholder.
func (e *TextExtractor) Extract(ctx context.Context, data []byte) string {
	text, err := e.fromLayer(ctx, data)
	if err != nil {
		e.log.Warn(ctx, "pdf text layer unavailable, using fallback", "error", err)
	}
	if strings.TrimSpace(text) != "" {
		return text
	}

	if e.fallback != nil {
		text, err = e.fallback.Extract(data)
		if err != nil {
			e.log.Warn(ctx, "pdf fallback text extraction failed", "error", err)
		}
		if strings.TrimSpace(text) != "" {
			return text
		}
	}
	return NoTextPlaceholder
}

// fromLayer joins the text of every readable page. A page that fails to
// read is skipped.
func (e *TextExtractor) fromLayer(ctx context.Context, data []byte) (string, error) {
	if e.primary == nil {
		return "", fmt.Errorf("no text layer reader configured")
	}
	doc, err := e.primary.Open(data)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	n := doc.NumPage()
	if n <= 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		raw, err := doc.Text(i)
		if err != nil {
			e.log.Debug(ctx, "skipping unreadable page", "page", i+1, "error", err)
			continue
		}
		if t := strings.Join(strings.Fields(raw), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// FitzText reads the text layer through MuPDF.
type FitzText struct{}

func (FitzText) Open(data []byte) (TextDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// PlainTextReader extracts text with a pure Go PDF parser.
type PlainTextReader struct{}

func (PlainTextReader) Extract(data []byte) (text string, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
