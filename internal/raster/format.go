// Package raster wraps the image codecs and transforms behind the image
// tools: resize, crop, compress, format conversion and metadata.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
)

// Format is an image container name as reported by the decoders.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WEBP Format = "webp"
	GIF  Format = "gif"
)

// ParseFormat accepts the names clients send for output formats.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return JPEG, true
	case "png":
		return PNG, true
	case "webp":
		return WEBP, true
	case "gif":
		return GIF, true
	}
	return "", false
}

// Ext is the file extension for f, with the leading dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// MIME is the content type for f.
func (f Format) MIME() string {
	return "image/" + string(f)
}

// decode reads data and reports the container it was stored in. EXIF
// orientation is applied so the pixel grid matches what viewers show.
// Images over MaxPixels are rejected before any pixel is decoded.
func decode(data []byte) (image.Image, Format, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if tooManyPixels(cfg.Width, cfg.Height) {
		return nil, "", apperror.InvalidParameters("Image of %dx%d exceeds the pixel limit", cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	return img, Format(name), nil
}

// encode writes img as f. quality applies to the lossy formats only.
func encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case GIF:
		return imaging.Encode(w, img, imaging.GIF)
	case WEBP:
		return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	}
	return fmt.Errorf("unsupported output format %q", f)
}

func encodeBytes(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, img, f, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
