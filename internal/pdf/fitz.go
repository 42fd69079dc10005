package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer rasterizes with MuPDF. It exposes pages as an Indexed source.
type FitzRenderer struct {
	DPI float64
}

func (r FitzRenderer) Open(_ context.Context, path string) (PageSource, io.Closer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf: %w", err)
	}

	src := Indexed{
		Count: doc.NumPage(),
		Page: func(_ context.Context, n int) (Page, error) {
			return doc.ImageDPI(n-1, r.DPI)
		},
	}
	return src, doc, nil
}
