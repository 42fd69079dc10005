package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
)

// multipartMemory is how much of a form is kept in memory before parts
// spill to temporary files.
const multipartMemory = 32 << 20

type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail answers with the status of err and its message. Server-side
// failures are logged.
func (api *Api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		api.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		var typed *apperror.Error
		if !errors.As(err, &typed) {
			msg = "Internal server error"
		}
	}
	writeJSON(w, status, failure{Message: msg})
}

type upload struct {
	Data     []byte
	Filename string
}

// readUpload parses the multipart form and returns the "file" part. The
// request body is capped at the configured upload size.
func (api *Api) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, api.Config.MaxUploadBytes())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.TooLarge("File too large")
		}
		return nil, apperror.InvalidParameters("No file provided")
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, apperror.InvalidParameters("No file provided")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.TooLarge("File too large")
		}
		return nil, apperror.InvalidParameters("No file provided")
	}
	return &upload{Data: data, Filename: hdr.Filename}, nil
}

// optionalInt parses a form field that may be absent. ok is false when the
// field is present but not an integer.
func optionalInt(r *http.Request, key string) (n int, ok bool) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
