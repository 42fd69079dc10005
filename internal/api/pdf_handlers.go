package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/docx"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/pdf"
)

const jpegType = "image/jpeg"

type pageFile struct {
	File        string `json:"file"`
	FileType    string `json:"fileType"`
	Filename    string `json:"filename"`
	PageNumber  int    `json:"pageNumber"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type singlePageResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	File        string `json:"file"`
	Filename    string `json:"filename"`
	FileType    string `json:"fileType"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type multiPageResponse struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	Files    []pageFile `json:"files"`
	FileType string     `json:"fileType"`
}

type metadataResponse struct {
	Success  bool         `json:"success"`
	Metadata pdf.Metadata `json:"metadata"`
}

type compressResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	File           string `json:"file"`
	Filename       string `json:"filename"`
	OriginalSize   int    `json:"originalSize"`
	CompressedSize int    `json:"compressedSize"`
	DownloadURL    string `json:"downloadUrl,omitempty"`
}

// pageNumber reads the optional 1-based page field. 0 means all pages.
func pageNumber(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.FormValue("pageNumber"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperror.InvalidParameters("Invalid page number: %s", v)
	}
	return n, nil
}

func convertedMessage(n int) string {
	noun := "pages"
	if n == 1 {
		noun = "page"
	}
	return fmt.Sprintf("Converted %d %s to JPG.", n, noun)
}

func (api *Api) PDFToJPG(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	page, err := pageNumber(r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	images, err := api.deps.Rasterizer.ToJPG(r.Context(), up.Data, page)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolPDFToJPG)

	files := make([]pageFile, len(images))
	for i, img := range images {
		n := page
		if n == 0 {
			n = i + 1
		}
		name := fmt.Sprintf("page-%d.jpg", n)
		files[i] = pageFile{
			File:        encode(img),
			FileType:    jpegType,
			Filename:    name,
			PageNumber:  n,
			DownloadURL: api.archive(r.Context(), name, img),
		}
	}

	msg := convertedMessage(len(files))
	if len(files) == 1 {
		writeJSON(w, http.StatusOK, singlePageResponse{
			Success:     true,
			Message:     msg,
			File:        files[0].File,
			Filename:    files[0].Filename,
			FileType:    jpegType,
			DownloadURL: files[0].DownloadURL,
		})
		return
	}
	writeJSON(w, http.StatusOK, multiPageResponse{Success: true, Message: msg, Files: files, FileType: jpegType})
}

func (api *Api) PDFToWord(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	doc, err := api.deps.Documents.ToWord(r.Context(), up.Data)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolPDFToWord)
	api.writeDocument(w, r, docx.Filename, "PDF converted to Word successfully", doc)
}

func (api *Api) PDFMetadata(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	md, err := pdf.Inspect(up.Data)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse{Success: true, Metadata: md})
}

func (api *Api) WordToPDF(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	out, err := api.deps.Documents.FromWord(up.Data)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolWordToPDF)
	api.writeDocument(w, r, "converted.pdf", "Word converted to PDF successfully", out)
}

func (api *Api) CompressPDF(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	out, _ := api.deps.Compressor.Compress(r.Context(), up.Data)

	api.track(r, models.ToolCompressPDF)
	const name = "compressed.pdf"
	writeJSON(w, http.StatusOK, compressResponse{
		Success:        true,
		Message:        "PDF compressed successfully",
		File:           encode(out),
		Filename:       name,
		OriginalSize:   len(up.Data),
		CompressedSize: len(out),
		DownloadURL:    api.archive(r.Context(), name, out),
	})
}
