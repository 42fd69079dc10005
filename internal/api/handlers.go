package api

import (
	"context"
	"net/http"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/docx"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/raster"
	"github.com/mohamedhussein2626/backend-part/internal/textstat"
)

type imageResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	File        string          `json:"file"`
	Metadata    raster.Metadata `json:"metadata"`
	DownloadURL string          `json:"downloadUrl,omitempty"`
}

type documentResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	File        string `json:"file"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type textResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

type countResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	textstat.Counts
}

// track records a successful tool use for the caller, if any. The outcome
// never affects the response.
func (api *Api) track(r *http.Request, tool models.Tool) {
	_ = api.deps.Tracker.Track(r.Context(), auth.UserID(r.Context()), tool)
}

// archive stores an output copy and returns its download URL, or "" when
// archival is off or fails.
func (api *Api) archive(ctx context.Context, filename string, data []byte) string {
	if api.deps.Archiver == nil {
		return ""
	}
	res, err := api.deps.Archiver.ArchiveOutput(ctx, filename, data)
	if err != nil {
		api.log.Warn(ctx, "archiving output failed", "filename", filename, "error", err)
		return ""
	}
	return res.URL
}

func (api *Api) writeImage(w http.ResponseWriter, r *http.Request, name, msg string, res *raster.Result) {
	writeJSON(w, http.StatusOK, imageResponse{
		Success:     true,
		Message:     msg,
		File:        encode(res.Data),
		Metadata:    res.Metadata,
		DownloadURL: api.archive(r.Context(), name+res.Metadata.Format.Ext(), res.Data),
	})
}

func (api *Api) writeDocument(w http.ResponseWriter, r *http.Request, filename, msg string, data []byte) {
	writeJSON(w, http.StatusOK, documentResponse{
		Success:     true,
		Message:     msg,
		File:        encode(data),
		Filename:    filename,
		DownloadURL: api.archive(r.Context(), filename, data),
	})
}

func (api *Api) ResizeImage(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	width, okW := optionalInt(r, "width")
	height, okH := optionalInt(r, "height")
	if !okW || !okH {
		api.fail(w, r, apperror.InvalidParameters("Invalid resize dimensions"))
		return
	}
	keepAspect := r.FormValue("maintainAspectRatio") != "false"

	res, err := raster.Resize(up.Data, width, height, keepAspect)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolResizeImage)
	api.writeImage(w, r, "resized", "Image resized successfully", res)
}

func (api *Api) CropImage(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	var rect [4]int
	for i, key := range []string{"x", "y", "width", "height"} {
		n, ok := optionalInt(r, key)
		if !ok || r.FormValue(key) == "" {
			api.fail(w, r, apperror.InvalidParameters("Invalid crop parameters"))
			return
		}
		rect[i] = n
	}

	res, err := raster.Crop(up.Data, rect[0], rect[1], rect[2], rect[3])
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolCropImage)
	api.writeImage(w, r, "cropped", "Image cropped successfully", res)
}

func (api *Api) CompressImage(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	quality, ok := optionalInt(r, "quality")
	if !ok {
		api.fail(w, r, apperror.InvalidParameters("Quality must be between 1 and 100"))
		return
	}
	if r.FormValue("quality") == "" {
		quality = raster.DefaultQuality
	}

	res, err := raster.Compress(up.Data, quality)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolCompressImage)
	api.writeImage(w, r, "compressed", "Image compressed successfully", res)
}

func (api *Api) ConvertImage(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	res, err := raster.Convert(up.Data, r.FormValue("format"))
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolConvertImage)
	api.writeImage(w, r, "converted", "Image converted successfully", res)
}

func (api *Api) JPGToWord(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	doc, err := docx.FromImage(up.Data)
	if err != nil {
		api.fail(w, r, apperror.Wrap(err, "JPG to Word conversion failed"))
		return
	}

	api.track(r, models.ToolJPGToWord)
	api.writeDocument(w, r, docx.Filename, "JPG converted to Word successfully", doc)
}

func (api *Api) ImageToText(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	text, err := api.deps.OCR.Recognize(r.Context(), up.Data)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolImageToText)
	writeJSON(w, http.StatusOK, textResponse{Success: true, Message: "Text extracted successfully", Text: text})
}

func (api *Api) WordCounter(w http.ResponseWriter, r *http.Request) {
	up, err := api.readUpload(w, r)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	text, err := api.deps.OCR.Recognize(r.Context(), up.Data)
	if err != nil {
		api.fail(w, r, err)
		return
	}

	api.track(r, models.ToolWordCounter)
	writeJSON(w, http.StatusOK, countResponse{Success: true, Message: "Word count completed", Counts: textstat.Count(text)})
}
