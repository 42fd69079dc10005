package raster

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
)

// DefaultQuality is used by Compress when the client sends none.
const DefaultQuality = 80

const (
	resizeQuality  = 90
	cropQuality    = 90
	convertQuality = 90
)

// Metadata describes an encoded image.
type Metadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
	Size   int    `json:"size"`
}

// Result is a transformed image together with its metadata.
type Result struct {
	Data     []byte
	Metadata Metadata
}

// Resize scales data to the size chosen by TargetSize. PNG and WebP inputs
// keep their format, everything else is written as JPEG.
func Resize(data []byte, width, height int, keepAspect bool) (*Result, error) {
	img, format, err := decode(data)
	if err != nil {
		return nil, apperror.Wrap(err, "Resize failed")
	}

	b := img.Bounds()
	w, h, err := TargetSize(b.Dx(), b.Dy(), width, height, keepAspect)
	if err != nil {
		return nil, err
	}

	out := imaging.Resize(img, w, h, imaging.Lanczos)

	if format != PNG && format != WEBP {
		format = JPEG
	}
	return finish(out, format, resizeQuality, "Resize failed")
}

// Crop extracts the given rectangle. The input format is kept where it can
// be written back.
func Crop(data []byte, x, y, width, height int) (*Result, error) {
	img, format, err := decode(data)
	if err != nil {
		return nil, apperror.Wrap(err, "Crop failed")
	}

	b := img.Bounds()
	rect, err := CropBounds(b.Dx(), b.Dy(), x, y, width, height)
	if err != nil {
		return nil, err
	}

	out := imaging.Crop(img, rect.Add(b.Min))
	return finish(out, writable(format), cropQuality, "Crop failed")
}

// Compress re-encodes data at quality (1..100). JPEG, PNG and WebP keep
// their format; anything else becomes JPEG.
func Compress(data []byte, quality int) (*Result, error) {
	if quality < 1 || quality > 100 {
		return nil, apperror.InvalidParameters("Quality must be between 1 and 100")
	}
	img, format, err := decode(data)
	if err != nil {
		return nil, apperror.Wrap(err, "Compression failed")
	}

	switch format {
	case JPEG, PNG, WEBP:
	default:
		format = JPEG
	}
	return finish(img, format, quality, "Compression failed")
}

// Convert re-encodes data as the requested format.
func Convert(data []byte, target string) (*Result, error) {
	format, ok := ParseFormat(target)
	if !ok {
		return nil, apperror.InvalidParameters("Unsupported format: %s", target)
	}
	img, _, err := decode(data)
	if err != nil {
		return nil, apperror.Wrap(err, "Conversion failed")
	}
	return finish(img, format, convertQuality, "Conversion failed")
}

// Inspect reads the dimensions and format of data without transforming it.
func Inspect(data []byte) (Metadata, error) {
	img, format, err := decode(data)
	if err != nil {
		return Metadata{}, apperror.Wrap(err, "Failed to read image")
	}
	b := img.Bounds()
	return Metadata{Width: b.Dx(), Height: b.Dy(), Format: format, Size: len(data)}, nil
}

// Decode exposes the decoder to other adapters.
func Decode(data []byte) (image.Image, Format, error) {
	return decode(data)
}

func finish(img image.Image, format Format, quality int, prefix string) (*Result, error) {
	out, err := encodeBytes(img, format, quality)
	if err != nil {
		return nil, apperror.ConversionFailed(err, prefix)
	}
	b := img.Bounds()
	return &Result{
		Data:     out,
		Metadata: Metadata{Width: b.Dx(), Height: b.Dy(), Format: format, Size: len(out)},
	}, nil
}

// writable maps decoder-only formats (bmp, tiff) to JPEG.
func writable(f Format) Format {
	switch f {
	case JPEG, PNG, WEBP, GIF:
		return f
	}
	return JPEG
}
