package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Writer lays out text with the Helvetica metrics and writes the PDF.
type Writer struct{}

func newDocument() (*fpdf.Fpdf, func(string) string) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", FontSize)
	doc.SetTextColor(0, 0, 0)
	return doc, doc.UnicodeTranslatorFromDescriptor("")
}

// HelveticaMeasure measures strings with the core Helvetica font.
func HelveticaMeasure() Measure {
	doc, tr := newDocument()
	return func(s string) float64 {
		return doc.GetStringWidth(tr(s))
	}
}

// Render writes l as a PDF document.
func (Writer) Render(l Layout) ([]byte, error) {
	doc, tr := newDocument()
	for _, page := range l.Pages {
		doc.AddPage()
		for _, line := range page.Lines {
			doc.Text(line.X, PageHeight-line.Y, tr(line.Text))
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// TextToPDF lays out text and renders it.
func (w Writer) TextToPDF(text string) ([]byte, error) {
	return w.Render(LayoutText(text, HelveticaMeasure()))
}
