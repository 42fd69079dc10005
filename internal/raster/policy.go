package raster

import (
	"image"
	"math"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
)

// MaxPixels bounds the pixel count of any decoded or produced image.
const MaxPixels = 268402689

// TargetSize computes the output dimensions of a resize. Zero means the
// dimension was not requested.
//
// With keepAspect and both dimensions given the result fits inside the
// requested box; with one dimension the other follows the source ratio.
// Without keepAspect both dimensions are required and used as is.
func TargetSize(srcW, srcH, width, height int, keepAspect bool) (int, int, error) {
	if width <= 0 && height <= 0 {
		return 0, 0, apperror.InvalidParameters("Width or height must be specified")
	}
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, apperror.InvalidParameters("Invalid resize dimensions")
	}

	ratio := float64(srcW) / float64(srcH)
	w, h := width, height

	switch {
	case width > 0 && height > 0:
		if keepAspect {
			if float64(width)/float64(height) > ratio {
				w = round(float64(height) * ratio)
			} else {
				h = round(float64(width) / ratio)
			}
		}
	case width > 0:
		if keepAspect {
			h = round(float64(width) / ratio)
		}
	default:
		if keepAspect {
			w = round(float64(height) * ratio)
		}
	}

	if w <= 0 || h <= 0 {
		return 0, 0, apperror.InvalidParameters("Invalid resize dimensions")
	}
	if tooManyPixels(w, h) {
		return 0, 0, apperror.InvalidParameters("Resize to %dx%d exceeds the pixel limit", w, h)
	}
	return w, h, nil
}

// CropBounds validates a crop rectangle against the source size.
func CropBounds(srcW, srcH, x, y, width, height int) (image.Rectangle, error) {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}, apperror.InvalidParameters("Invalid crop parameters")
	}
	if x < 0 || y < 0 || width > srcW-x || height > srcH-y {
		return image.Rectangle{}, apperror.InvalidParameters(
			"Crop area %dx%d at (%d,%d) is outside the %dx%d image", width, height, x, y, srcW, srcH)
	}
	return image.Rect(x, y, x+width, y+height), nil
}

func tooManyPixels(w, h int) bool {
	return w > 0 && h > MaxPixels/w
}

func round(v float64) int {
	return int(math.Round(v))
}
