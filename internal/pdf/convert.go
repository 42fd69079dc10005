package pdf

import (
	"context"
	"errors"
	"strings"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/docx"
)

// Converter combines the text extractor and the writer into the
// document conversions.
type Converter struct {
	text   *TextExtractor
	writer Writer
}

func NewConverter(text *TextExtractor) *Converter {
	return &Converter{text: text}
}

// ToWord extracts the text of a PDF into a DOCX, one paragraph per page.
func (c *Converter) ToWord(ctx context.Context, data []byte) ([]byte, error) {
	text := c.text.Extract(ctx, data)
	out, err := docx.FromText(text, NoTextPlaceholder)
	if err != nil {
		return nil, apperror.ConversionFailed(err, "PDF to Word conversion failed")
	}
	return out, nil
}

// FromWord renders the text of a DOCX into a PDF.
func (c *Converter) FromWord(data []byte) ([]byte, error) {
	text, err := docx.ExtractText(data)
	if errors.Is(err, docx.ErrNotDocx) {
		return nil, apperror.ConversionFailed(errors.New(
			"Invalid Word document format. The file appears to be corrupted or is not a valid DOCX file. "+
				"Please ensure you are uploading a valid Microsoft Word document (.docx format)."),
			"Word to PDF conversion failed")
	}
	if err != nil {
		return nil, apperror.ConversionFailed(err, "Word to PDF conversion failed")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ConversionFailed(errors.New(
			"No text found in Word document. The document may be empty or contain only images."),
			"Word to PDF conversion failed")
	}

	out, err := c.writer.TextToPDF(text)
	if err != nil {
		return nil, apperror.ConversionFailed(err, "Word to PDF conversion failed")
	}
	return out, nil
}
