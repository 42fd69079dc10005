package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/mohamedhussein2626/backend-part/internal/raster"
)

// minPageBytes is the smallest JPEG accepted as a real rendered page.
const minPageBytes = 1000

// pageImage normalizes any accepted Page shape to decoded pixels.
func pageImage(p Page) (image.Image, error) {
	var data []byte
	switch v := p.(type) {
	case nil:
		return nil, fmt.Errorf("renderer returned an empty page")
	case image.Image:
		return v, nil
	case []byte:
		data = v
	case interface{ Bytes() []byte }:
		data = v.Bytes()
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		data = b
	default:
		return nil, fmt.Errorf("unsupported page type %T", p)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("renderer returned an empty page")
	}
	img, _, err := raster.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return img, nil
}

// encodePage writes p as JPEG and rejects near-empty output.
func encodePage(p Page, quality int) ([]byte, error) {
	img, err := pageImage(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	if buf.Len() < minPageBytes {
		return nil, errDegenerate{size: buf.Len()}
	}
	return buf.Bytes(), nil
}

type errDegenerate struct {
	size int
}

func (e errDegenerate) Error() string {
	return fmt.Sprintf("buffer too small (%d bytes)", e.size)
}
