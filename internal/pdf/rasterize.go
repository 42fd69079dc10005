package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
)

const jpgFailed = "PDF to JPG conversion failed"

// Rasterizer converts PDF pages to JPEG images.
type Rasterizer struct {
	renderer Renderer
	tempDir  string
	quality  int
	log      logging.Logger

	writeFile func(name string, data []byte, perm os.FileMode) error
}

func NewRasterizer(renderer Renderer, tempDir string, quality int, log logging.Logger) *Rasterizer {
	return &Rasterizer{renderer: renderer, tempDir: tempDir, quality: quality, log: log, writeFile: os.WriteFile}
}

// ToJPG renders the requested 1-based page, or every page when page is 0,
// and returns one JPEG per page in page order.
func (r *Rasterizer) ToJPG(ctx context.Context, data []byte, page int) ([][]byte, error) {
	if page < 0 {
		return nil, apperror.InvalidParameters("Invalid page number: %d", page)
	}

	path, err := r.writeTemp(data)
	if err != nil {
		return nil, apperror.ConversionFailed(err, jpgFailed)
	}
	defer r.removeTemp(ctx, path)

	src, closer, err := r.renderer.Open(ctx, path)
	if err != nil {
		return nil, apperror.ConversionFailed(err, jpgFailed)
	}
	if closer != nil {
		defer closer.Close()
	}

	pages, err := r.collect(ctx, src, page)
	if err != nil {
		return nil, apperror.Wrap(err, jpgFailed)
	}
	return pages, nil
}

func (r *Rasterizer) collect(ctx context.Context, src PageSource, page int) ([][]byte, error) {
	switch s := src.(type) {
	case Indexed:
		return r.collectIndexed(ctx, s, page)
	case AsyncSequence:
		if s.Stop != nil {
			defer s.Stop()
		}
		return r.collectSequence(channelPages(ctx, s.Pages), page)
	case Materialized:
		if len(s.Pages) == 0 {
			return nil, errors.New("renderer returned no pages")
		}
		if page > len(s.Pages) {
			return nil, outOfRange(page, len(s.Pages))
		}
		return r.collectSequence(slicePages(s.Pages), page)
	case SyncSequence:
		return r.collectSequence(s.Pages, page)
	case nil:
		return nil, errors.New("renderer returned no page source")
	default:
		return nil, fmt.Errorf("unsupported page source %T", src)
	}
}

func (r *Rasterizer) collectIndexed(ctx context.Context, src Indexed, page int) ([][]byte, error) {
	if src.Count <= 0 {
		return nil, fmt.Errorf("invalid PDF page count: %d", src.Count)
	}
	if page > src.Count {
		return nil, outOfRange(page, src.Count)
	}

	first, last := 1, src.Count
	if page > 0 {
		first, last = page, page
	}

	out := make([][]byte, 0, last-first+1)
	for n := first; n <= last; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := src.Page(ctx, n)
		if err != nil {
			return nil, pageFailed(n, err)
		}
		jpg, err := r.encode(n, p)
		if err != nil {
			return nil, err
		}
		out = append(out, jpg)
	}
	return out, nil
}

// collectSequence consumes pages in order, stopping right after the
// requested page.
func (r *Rasterizer) collectSequence(pages iter.Seq2[Page, error], page int) ([][]byte, error) {
	if pages == nil {
		return nil, errors.New("renderer returned no page source")
	}

	var out [][]byte
	n := 0
	for p, err := range pages {
		n++
		if err != nil {
			return nil, pageFailed(n, err)
		}
		if page > 0 && n != page {
			continue
		}
		jpg, err := r.encode(n, p)
		if err != nil {
			return nil, err
		}
		out = append(out, jpg)
		if page > 0 {
			break
		}
	}

	if len(out) == 0 {
		if page > 0 && n > 0 {
			return nil, outOfRange(page, n)
		}
		return nil, errors.New("no pages were processed, the PDF may be empty")
	}
	return out, nil
}

func (r *Rasterizer) encode(n int, p Page) ([]byte, error) {
	jpg, err := encodePage(p, r.quality)
	var degenerate errDegenerate
	if errors.As(err, &degenerate) {
		return nil, apperror.ConversionFailed(err, fmt.Sprintf("%s: Failed to generate image for page %d", jpgFailed, n))
	}
	if err != nil {
		return nil, pageFailed(n, err)
	}
	return jpg, nil
}

func (r *Rasterizer) writeTemp(data []byte) (string, error) {
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(r.tempDir, "pdf-"+uuid.NewString()+".pdf")
	if err := r.writeFile(path, data, 0o600); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

func (r *Rasterizer) removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Warn(ctx, "failed to clean up temp file", "path", path, "error", err)
	}
}

func outOfRange(page, total int) error {
	return apperror.InvalidParameters("Page %d does not exist, the document has %d page(s)", page, total)
}

func pageFailed(n int, err error) error {
	return apperror.ConversionFailed(err, fmt.Sprintf("%s: Failed to process page %d", jpgFailed, n))
}
