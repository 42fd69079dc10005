package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/docx"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

func TestWriter_PageCountMatchesLayout(t *testing.T) {
	text := strings.Repeat("Paragraph text that goes on for a while.\n\n", 80)
	layout := LayoutText(text, HelveticaMeasure())
	require.Greater(t, len(layout.Pages), 1)

	data, err := Writer{}.Render(layout)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	md, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, len(layout.Pages), md.PageCount)
	assert.Equal(t, len(data), md.Size)
}

func TestInspect_Garbage(t *testing.T) {
	_, err := Inspect([]byte("nope"))
	assert.ErrorIs(t, err, apperror.ErrConversionFailed)
	assert.Contains(t, err.Error(), "Failed to get PDF metadata")
}

func TestCompressor(t *testing.T) {
	c := NewCompressor(logging.Nop())

	garbage := []byte("not a pdf at all")
	out, ok := c.Compress(context.Background(), garbage)
	assert.False(t, ok)
	assert.Equal(t, garbage, out)

	doc, err := Writer{}.TextToPDF(strings.Repeat("Some words to fill the page. ", 200))
	require.NoError(t, err)

	out, _ = c.Compress(context.Background(), doc)
	md, err := Inspect(out)
	require.NoError(t, err)
	assert.Greater(t, md.PageCount, 0)
	assert.LessOrEqual(t, len(out), len(doc))
}

func TestConverter_FromWord(t *testing.T) {
	c := NewConverter(NewTextExtractor(nil, nil, logging.Nop()))

	word, err := docx.FromText("Title\n\nBody text of the document.", "")
	require.NoError(t, err)

	data, err := c.FromWord(word)
	require.NoError(t, err)
	md, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 1, md.PageCount)
}

func TestConverter_FromWordErrors(t *testing.T) {
	c := NewConverter(NewTextExtractor(nil, nil, logging.Nop()))

	_, err := c.FromWord([]byte("plain bytes"))
	assert.ErrorIs(t, err, apperror.ErrConversionFailed)
	assert.Contains(t, err.Error(), "Word to PDF conversion failed: Invalid Word document format")

	empty, err := docx.FromParagraphs([]string{"  "})
	require.NoError(t, err)
	_, err = c.FromWord(empty)
	assert.ErrorContains(t, err, "No text found in Word document")
}

func TestConverter_ToWord(t *testing.T) {
	doc := &fakeTextDoc{pages: []string{"page one", "page two"}}
	c := NewConverter(NewTextExtractor(fakeLayer{doc: doc}, nil, logging.Nop()))

	out, err := c.ToWord(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	text, err := docx.ExtractText(out)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", text)
}

func TestConverter_ToWordPlaceholder(t *testing.T) {
	c := NewConverter(NewTextExtractor(fakeLayer{doc: &fakeTextDoc{}}, &fakePlain{}, logging.Nop()))

	out, err := c.ToWord(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	text, err := docx.ExtractText(out)
	require.NoError(t, err)
	assert.Equal(t, NoTextPlaceholder, text)
}
