package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/pdf"
)

var fakePDF = []byte("%PDF-1.4 fake")

func TestPDFToJPG_AllPages(t *testing.T) {
	env := newTestEnv(t)
	env.rasterizer.On("ToJPG", 0).Return([][]byte{{1}, {2}, {3}}, nil)

	req := uploadRequest(t, "/api/pdf/pdf-to-jpg", nil, fakePDF)
	req.AddCookie(env.cookie(t, "user-1", models.RoleUser))
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Converted 3 pages to JPG.", body["message"])
	assert.Equal(t, "image/jpeg", body["fileType"])
	files := body["files"].([]any)
	require.Len(t, files, 3)
	for i, f := range files {
		page := f.(map[string]any)
		assert.EqualValues(t, i+1, page["pageNumber"])
		assert.Equal(t, []string{"page-1.jpg", "page-2.jpg", "page-3.jpg"}[i], page["filename"])
		assert.Equal(t, "image/jpeg", page["fileType"])
	}

	events := env.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "PDF to JPG", events[0].ToolName)
	assert.Equal(t, models.ToolTypePDF, events[0].ToolType)
}

func TestPDFToJPG_SinglePage(t *testing.T) {
	env := newTestEnv(t)
	env.rasterizer.On("ToJPG", 2).Return([][]byte{{9, 9}}, nil)

	rec := env.do(uploadRequest(t, "/api/pdf/pdf-to-jpg", map[string]string{"pageNumber": "2"}, fakePDF))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Converted 1 page to JPG.", body["message"])
	assert.Equal(t, "page-2.jpg", body["filename"])
	assert.Equal(t, "CQk=", body["file"])
	assert.NotContains(t, body, "files")
}

func TestPDFToJPG_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.rasterizer.On("ToJPG", 5).Return(nil, apperror.InvalidParameters("Page 5 does not exist, the document has 3 page(s)"))
	env.rasterizer.On("ToJPG", 1).Return(nil, apperror.ConversionFailed(errors.New("Failed to generate image for page 1"), "PDF to JPG conversion failed"))

	rec := env.do(uploadRequest(t, "/api/pdf/pdf-to-jpg", map[string]string{"pageNumber": "5"}, fakePDF))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "Page 5")

	rec = env.do(uploadRequest(t, "/api/pdf/pdf-to-jpg", map[string]string{"pageNumber": "1"}, fakePDF))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "PDF to JPG conversion failed: Failed to generate image for page 1", decode(t, rec)["message"])

	for _, bad := range []string{"0", "-1", "two"} {
		rec = env.do(uploadRequest(t, "/api/pdf/pdf-to-jpg", map[string]string{"pageNumber": bad}, fakePDF))
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	rec = env.do(uploadRequest(t, "/api/pdf/pdf-to-jpg", nil, nil))
	assert.Equal(t, "No file provided", decode(t, rec)["message"])

	env.rasterizer.AssertNotCalled(t, "ToJPG", 0)
	assert.Empty(t, env.recorder.Events())
}

func TestPDFToWord(t *testing.T) {
	env := newTestEnv(t)
	env.documents.On("ToWord", fakePDF).Return([]byte("PK-docx"), nil)

	rec := env.do(uploadRequest(t, "/api/pdf/pdf-to-word", nil, fakePDF))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "PDF converted to Word successfully", body["message"])
	assert.Equal(t, "converted.docx", body["filename"])
}

func TestWordToPDF(t *testing.T) {
	env := newTestEnv(t)
	env.documents.On("FromWord", []byte("good")).Return([]byte("%PDF"), nil)
	env.documents.On("FromWord", []byte("bad")).Return(nil,
		apperror.ConversionFailed(errors.New("No text found in Word document."), "Word to PDF conversion failed"))

	rec := env.do(uploadRequest(t, "/api/pdf/word-to-pdf", nil, []byte("good")))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Word converted to PDF successfully", body["message"])
	assert.Equal(t, "converted.pdf", body["filename"])

	rec = env.do(uploadRequest(t, "/api/pdf/word-to-pdf", nil, []byte("bad")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Word to PDF conversion failed: No text found in Word document.", decode(t, rec)["message"])
}

func TestPDFMetadata(t *testing.T) {
	env := newTestEnv(t)
	doc, err := pdf.Writer{}.TextToPDF("one page of text")
	require.NoError(t, err)

	req := uploadRequest(t, "/api/pdf/metadata", nil, doc)
	req.AddCookie(env.cookie(t, "user-1", models.RoleUser))
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	md := decode(t, rec)["metadata"].(map[string]any)
	assert.EqualValues(t, 1, md["pageCount"])
	assert.EqualValues(t, len(doc), md["size"])

	// metadata lookups are not tool uses
	assert.Empty(t, env.recorder.Events())

	rec = env.do(uploadRequest(t, "/api/pdf/metadata", nil, []byte("garbage")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCompressPDF_FallsBackToOriginal(t *testing.T) {
	env := newTestEnv(t)
	env.compressor.On("Compress", mock.Anything).Return(fakePDF, false)

	rec := env.do(uploadRequest(t, "/api/pdf/compress", nil, fakePDF))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "PDF compressed successfully", body["message"])
	assert.Equal(t, "compressed.pdf", body["filename"])
	assert.EqualValues(t, len(fakePDF), body["originalSize"])
	assert.EqualValues(t, len(fakePDF), body["compressedSize"])
}
