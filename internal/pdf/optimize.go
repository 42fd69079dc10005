package pdf

import (
	"bytes"
	"context"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

var disableConfigDir sync.Once

func pdfcpuConfig() *model.Configuration {
	// pdfcpu otherwise writes its config into the user's home directory
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Metadata describes an uploaded PDF.
type Metadata struct {
	PageCount int `json:"pageCount"`
	Size      int `json:"size"`
}

// Inspect counts the pages of data.
func Inspect(data []byte) (Metadata, error) {
	n, err := api.PageCount(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		return Metadata{}, apperror.ConversionFailed(err, "Failed to get PDF metadata")
	}
	return Metadata{PageCount: n, Size: len(data)}, nil
}

// Compressor rewrites PDFs with pdfcpu's optimizer.
type Compressor struct {
	log logging.Logger
}

func NewCompressor(log logging.Logger) *Compressor {
	return &Compressor{log: log}
}

// Compress returns the optimized document. When optimization fails, or
// does not make the file smaller, the original bytes are returned and
// optimized is false.
func (c *Compressor) Compress(ctx context.Context, data []byte) (out []byte, optimized bool) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, pdfcpuConfig()); err != nil {
		c.log.Warn(ctx, "pdf compression failed, returning original", "error", err)
		return data, false
	}
	if buf.Len() == 0 || buf.Len() >= len(data) {
		return data, false
	}
	return buf.Bytes(), true
}
